// Package sqlxrepos implements the Postgres storage on top of sqlx.
package sqlxrepos

import "github.com/jmoiron/sqlx"

// namedQuery binds a `:name` query to arg and rebinds it to Postgres `$n` placeholders.
func namedQuery(query string, arg interface{}) (string, []interface{}, error) {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), args, nil
}
