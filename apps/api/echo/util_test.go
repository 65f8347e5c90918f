package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/edumanage/apps/api/echo"
	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/user"
	"github.com/trezcool/edumanage/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type fakeGenerator struct {
	summary  string
	feedback string
}

func (g fakeGenerator) Summarize(context.Context, insight.InstituteFacts) (string, error) {
	return g.summary, nil
}

func (g fakeGenerator) Feedback(context.Context, insight.FeedbackRequest) (string, error) {
	return g.feedback, nil
}

type testApp struct {
	*echoapi.Server
	svcs *testutil.Services
}

func setup(t *testing.T, opts ...func(*core.Config)) *testApp {
	svcs := testutil.NewServices(t, opts...)
	logger := testutil.NewLogger(svcs.Conf)
	gen := fakeGenerator{summary: "The institute is doing well.", feedback: "Nice work!"}

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       svcs.Conf,
		Logger:     logger,
		Validate:   svcs.Validate,
		Translator: svcs.Translator,
		UserSvc:    svcs.Users,
		AcademySvc: svcs.Academy,
		InsightSvc: insight.NewService(gen, logger),
		Stats:      svcs.DB,
	})
	t.Cleanup(func() { _ = srv.Close() })
	return &testApp{Server: srv, svcs: svcs}
}

// do serves one request and returns the recorder.
func (app *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) user(t *testing.T, id user.ID) user.User {
	usr, err := app.svcs.Users.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID(%s) failed: %v", id, err)
	}
	return usr
}

func (app *testApp) token(t *testing.T, id user.ID) string {
	token, err := app.Token(app.user(t, id))
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
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
	if _, ok := j1.([]interface{}); !ok {
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

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := app.do(method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
