package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/pgmhostel/pgm/apps/api/echo"
	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/report"
	"github.com/pgmhostel/pgm/core/staff"
	emailsvc "github.com/pgmhostel/pgm/services/email"
	logsvc "github.com/pgmhostel/pgm/services/logger"
	inmemdb "github.com/pgmhostel/pgm/storage/database/inmem"
	"github.com/pgmhostel/pgm/tests"
)

var (
	conf = &core.Config{
		Env:                       "TEST",
		TestMode:                  true,
		AppName:                   "PGM Console",
		SecretKey:                 "test-secret",
		DefaultFromEmail:          "noreply@pg.in",
		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: 4 * time.Hour,
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type testApp struct {
	*echoapi.Server

	staffRepo staff.Repository
	mailSvc   *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) *testApp {
	t.Helper()

	// set up DB & repos
	db := inmemdb.Open()
	src := inmemdb.NewSource(db)
	src.Load(testutil.HostelSnapshot())
	staffRepo := inmemdb.NewStaffRepository(db)

	// set up services
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	staff.InitValidators(validate, translator)
	report.InitValidators(validate, translator)

	// set up server
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		StaffSvc:       staff.NewService(staffRepo, validate),
		ReportSvc:      report.NewService(src, logger, mailSvc),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return &testApp{Server: server, staffRepo: staffRepo, mailSvc: mailSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, s staff.Staff) string {
	token, err := echoapi.GenerateToken(conf, echoapi.NewClaims(conf, s))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func (tt httpTest) run(t *testing.T, app http.Handler) {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
