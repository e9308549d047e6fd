package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/registrar/apps/api/echo"
	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/location"
	"github.com/trezcool/registrar/core/reconcile"
	"github.com/trezcool/registrar/core/report"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
	emailsvc "github.com/trezcool/registrar/services/email"
	sheetsvc "github.com/trezcool/registrar/services/spreadsheet"
	dummydb "github.com/trezcool/registrar/storage/database/dummy"
	testutil "github.com/trezcool/registrar/tests"
)

type testEnv struct {
	server    *Server
	sheet     *sheetsvc.Memory
	logger    *testutil.Logger
	schools   school.Repository
	students  student.Repository
	faculty   faculty.Repository
	upstream  *httptest.Server
	upstreamN *int32 // calls to the location API
}

// psgc fakes the location API.
func psgc(calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/regions/":
			_, _ = w.Write([]byte(`[{"code":"130000000","name":"NCR"}]`))
		case strings.HasPrefix(r.URL.Path, "/regions/130000000/provinces/"):
			_, _ = w.Write([]byte(`[]`))
		case strings.HasPrefix(r.URL.Path, "/provinces/"):
			_, _ = w.Write([]byte(`[{"code":"137404000","name":"Quezon City"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}
	}
}

func setup(t *testing.T, tabs ...string) *testEnv {
	t.Helper()
	conf := testutil.NewConfig(t)
	conf.Debug = false
	conf.Server.DisableReqLogs = true

	logger := new(testutil.Logger)
	core.ParseEmailTemplates(conf, logger)

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	db, err := dummydb.Open()
	require.NoError(t, err)
	env := &testEnv{
		sheet:     sheetsvc.NewMemory(tabs...),
		logger:    logger,
		schools:   dummydb.NewSchoolRepository(db),
		students:  dummydb.NewStudentRepository(db),
		faculty:   dummydb.NewFacultyRepository(db),
		upstreamN: new(int32),
	}
	env.upstream = httptest.NewServer(psgc(env.upstreamN))
	t.Cleanup(env.upstream.Close)

	schools := school.NewService(env.schools)
	students := student.NewService(env.students)
	members := faculty.NewService(env.faculty)
	rec, err := reconcile.NewService(reconcile.Deps{
		Sheet:      env.sheet,
		References: schools,
		Students:   students,
		Faculty:    members,
		Logger:     logger,
		StudentTab: conf.Sheets.StudentTab,
		FacultyTab: conf.Sheets.FacultyTab,
	})
	require.NoError(t, err)

	reportSvc, err := report.NewService(report.Deps{
		Schools:        schools,
		Students:       students,
		Faculty:        members,
		Reconciler:     rec,
		Mail:           emailsvc.NewConsoleServiceMock(conf),
		Recipients:     conf.ReportRecipients(),
		SpreadsheetURL: "https://docs.google.com/spreadsheets/d/test",
		Logger:         logger,
	})
	require.NoError(t, err)

	locationSvc, err := location.NewService(location.Options{
		BaseURL:   env.upstream.URL,
		CacheTTL:  time.Minute,
		CacheSize: 16,
		Timeout:   time.Second,
	}, logger)
	require.NoError(t, err)

	env.server = NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		ReportSvc:   reportSvc,
		LocationSvc: locationSvc,
		Validate:    validate,
		Translator:  translator,
	})
	return env
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (env *testEnv) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	env.server.ServeHTTP(rec, req)
	return rec
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
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
