package report

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pgmhostel/pgm/core"
)

// Filter values
const (
	FilterAll       = "All"
	DueStatusHas    = "Has Dues"
	DueStatusNone   = "Fully Paid"
	noMethodLabel   = "N/A"
	unassignedLabel = "Not Assigned"
)

var (
	dueStatusTag  = "duestatus"
	dueStatusText = "{0} must be one of All, Has Dues, Fully Paid"

	roomStatusTag  = "roomstatus"
	roomStatusText = "{0} must be one of All, Full, Partially Occupied, Available"
)

// Report queries are immutable parameters; building a report never changes the raw collections.
// An empty value or "All" disables a filter.
type (
	StudentQuery struct {
		Search string `query:"search"` // name or email (case-insensitive) or phone
		Room   string `query:"room"`   // exact room number
	}

	DueQuery struct {
		Search string `query:"search"` // name or room number, case-insensitive
		Status string `query:"status" validate:"duestatus"`
	}

	RoomQuery struct {
		Search string `query:"search"` // room number, case-insensitive
		Status string `query:"status" validate:"roomstatus"`
	}

	OccupancyQuery struct {
		Search string `query:"search"` // room number, case-insensitive
		Type   string `query:"type"`   // exact room type
	}

	PaymentQuery struct {
		Search string `query:"search"` // payer name, case-insensitive
		Month  string `query:"month" validate:"yearmonth"`
		Method string `query:"method"` // exact method
	}
)

func (q *StudentQuery) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Room = core.CleanString(q.Room)
}

func (q *DueQuery) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Status = core.CleanString(q.Status)
}

func (q *RoomQuery) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Status = core.CleanString(q.Status)
}

func (q *OccupancyQuery) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Type = core.CleanString(q.Type)
}

func (q *PaymentQuery) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Month = core.CleanString(q.Month)
	q.Method = core.CleanString(q.Method)
}

// InitValidators registers the report query validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(dueStatusTag, oneOfValidation(FilterAll, DueStatusHas, DueStatusNone))
	core.RegisterCustomTranslation(validate, translator, dueStatusTag, dueStatusText)

	_ = validate.RegisterValidation(roomStatusTag, oneOfValidation(
		FilterAll, string(StatusFull), string(StatusPartiallyOccupied), string(StatusAvailable),
	))
	core.RegisterCustomTranslation(validate, translator, roomStatusTag, roomStatusText)
}

// oneOfValidation accepts an empty string or one of values.
func oneOfValidation(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func isAll(filter string) bool {
	return filter == "" || filter == FilterAll
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
