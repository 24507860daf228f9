package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/render"
	"github.com/gin-gonic/gin"
)

const sampleCSV = "age,sex,bmi,children,smoker,region,charges\n" +
	"19,female,27.9,0,yes,southwest,16884.92\n" +
	"18,male,33.77,1,no,southeast,1725.55\n" +
	"28,male,33,3,no,southeast,4449.46\n" +
	"33,male,22.705,0,no,northwest,21984.47\n" +
	"32,male,28.88,0,no,northwest,3866.86\n" +
	"31,female,25.74,0,no,southeast,3756.62\n" +
	"46,female,33.44,1,no,southeast,8240.59\n" +
	"37,female,27.74,3,no,northwest,7281.51\n" +
	"37,male,29.83,2,no,northeast,6406.41\n" +
	"60,female,25.84,0,no,northwest,28923.14\n" +
	"25,male,26.22,0,no,northeast,2721.32\n" +
	"62,female,26.29,0,yes,southeast,27808.73\n" +
	"19,female,28.6,5,no,southwest,4687.80\n" +
	"25,male,33.66,4,no,southeast,4504.66\n" +
	"35,male,36.67,1,yes,northeast,39774.28\n" +
	"60,male,39.9,0,yes,southwest,48173.36\n"

const transformerYAML = `
input:
  - {name: age, kind: numeric}
  - {name: sex, kind: categorical}
  - {name: bmi, kind: numeric}
  - {name: children, kind: numeric}
  - {name: smoker, kind: categorical}
  - {name: region, kind: categorical}
transformers:
  - name: onehot
    type: onehot
    columns: [sex, smoker, region]
    categories: [[female, male], ["no", "yes"], [northeast, northwest, southeast, southwest]]
    drop: first
remainder: passthrough
`

const modelJSON = `{"kind": "linear", "intercept": -11938.5,
 "coefficients": [-131.3, 23848.5, -353.0, -1035.0, -960.1, 256.9, 339.2, 475.5]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tbl, err := dataset.Read(strings.NewReader(sampleCSV), "sample.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tr, err := predict.ParseTransformer([]byte(transformerYAML))
	if err != nil {
		t.Fatalf("transformer: %v", err)
	}
	m, err := predict.ParseModel([]byte(modelJSON))
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	p, err := predict.NewPipeline(tr, m)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	ch, err := predict.ChoicesFrom(tbl)
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	s, err := New(Deps{
		Table:       tbl,
		Pipeline:    p,
		Choices:     ch,
		Size:        render.Size{Width: 400, Height: 340},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigins: []string{"*"},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestPredictionPageShowsForm(t *testing.T) {
	s := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`<select name="region">`, `name="age" min="18" max="62"`, `<option selected>southwest</option>`} {
		if !strings.Contains(body, want) {
			t.Fatalf("form missing %s", want)
		}
	}
	if strings.Contains(body, "Estimated charges") {
		t.Fatal("estimate shown before submit")
	}
	if w.Header().Get(headerRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestBMISliderReachesBothBounds(t *testing.T) {
	s := newTestServer(t)
	body := do(s, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if !strings.Contains(body, `name="bmi" min="22.705" max="39.9" step="any"`) {
		t.Fatal("bmi slider must allow any step so both bounds are selectable")
	}
	for _, bmi := range []string{"22.705", "39.9"} {
		form := url.Values{
			"region": {"southeast"}, "sex": {"male"}, "smoker": {"no"},
			"children": {"1"}, "age": {"30"}, "bmi": {bmi},
		}
		req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if w := do(s, req); w.Code != http.StatusOK {
			t.Fatalf("bmi %s: status %d", bmi, w.Code)
		}
	}
}

func TestSubmitPredictionForm(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{
		"region": {"southeast"}, "sex": {"male"}, "smoker": {"no"},
		"children": {"1"}, "age": {"30"}, "bmi": {"25"},
	}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Estimated charges $3557.70") {
		t.Fatal("estimate missing from page")
	}

	form.Set("age", "90")
	req = httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = do(s, req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid age") {
		t.Fatalf("out of range age: status %d", w.Code)
	}
}

func TestAnalysisPages(t *testing.T) {
	s := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/pages/univariate", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h2>Countplot</h2>") || !strings.Contains(body, "<svg") {
		t.Fatal("univariate page missing figures")
	}
	if w := do(s, httptest.NewRequest(http.MethodGet, "/pages/prediction", nil)); w.Code != http.StatusOK {
		t.Fatalf("prediction page status = %d", w.Code)
	}
	if w := do(s, httptest.NewRequest(http.MethodGet, "/pages/nope", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("unknown page status = %d", w.Code)
	}
}

func TestAPIPredict(t *testing.T) {
	s := newTestServer(t)
	body := `{"age": 30, "sex": "male", "bmi": 25.0, "children": 1, "smoker": "no", "region": "southeast"}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp predictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(resp.Charges-3557.7) > 1e-6 || resp.Message != "Estimated charges $3557.70" || resp.RequestID == "" {
		t.Fatalf("response = %+v", resp)
	}

	zeroKids := `{"age": 18, "sex": "female", "bmi": 22.705, "children": 0, "smoker": "yes", "region": "northwest"}`
	req = httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(zeroKids))
	req.Header.Set("Content-Type", "application/json")
	if w := do(s, req); w.Code != http.StatusOK {
		t.Fatalf("lower bounds rejected: %d %s", w.Code, w.Body.String())
	}

	missing := `{"age": 30, "sex": "male", "children": 1, "smoker": "no", "region": "southeast"}`
	req = httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(missing))
	req.Header.Set("Content-Type", "application/json")
	if w := do(s, req); w.Code != http.StatusBadRequest {
		t.Fatalf("missing bmi status = %d", w.Code)
	}
}

func TestAPIChoicesViewsAndHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/api/choices", nil))
	var ch predict.Choices
	if err := json.Unmarshal(w.Body.Bytes(), &ch); err != nil {
		t.Fatalf("decode choices: %v", err)
	}
	if len(ch.Region) != 4 || ch.AgeMin != 18 || ch.BMIMax != 39.9 {
		t.Fatalf("choices = %+v", ch)
	}

	w = do(s, httptest.NewRequest(http.MethodGet, "/api/views/bivariate", nil))
	var view struct {
		Page     string `json:"page"`
		Sections []struct {
			Heading string `json:"heading"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Page != "Bivariate" || len(view.Sections) != 5 || view.Sections[4].Heading != "Heat Map" {
		t.Fatalf("view = %+v", view)
	}
	if w := do(s, httptest.NewRequest(http.MethodGet, "/api/views/prediction", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("prediction view status = %d", w.Code)
	}

	w = do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var health struct {
		Dataset  string `json:"dataset"`
		Model    string `json:"model"`
		Features int    `json:"features"`
		Inputs   []struct {
			Name string `json:"name"`
		} `json:"inputs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil || w.Code != http.StatusOK {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	if health.Dataset != "sample.csv" || health.Model != "linear" || health.Features != 8 ||
		len(health.Inputs) != 6 || health.Inputs[5].Name != "region" {
		t.Fatalf("health = %+v", health)
	}
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t)
	const id = "7f1c2a0e-1111-4a4a-9b9b-123456789abc"
	req := httptest.NewRequest(http.MethodGet, "/api/choices", nil)
	req.Header.Set(headerRequestID, id)
	req.Header.Set("Origin", "http://dashboard.test")
	w := do(s, req)
	if got := w.Header().Get(headerRequestID); got != id {
		t.Fatalf("request id = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatal("expected error for empty deps")
	}
}
