package echomw_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/dsl"
	echomw "github.com/reoring/edikit/middleware/echo"
)

func registry() *edikit.Registry {
	unh := dsl.Segment("UNH").
		Field("ref", dsl.Text("ref")).Required().
		Field("type", dsl.Of(dsl.Composite("S009", dsl.Text("type").Required(), dsl.Text("version")))).Required().
		MustBuild()
	bgm := dsl.Segment("BGM").Field("number", dsl.Text("number")).Required().MustBuild()
	def := dsl.Message("NOTE").
		Segment(unh).One().
		Segment(bgm).One().
		MustBuild()
	return edikit.NewRegistry().MustRegister(def)
}

func server(reg *edikit.Registry, opts echomw.Options) *echo.Echo {
	e := echo.New()
	h := func(c echo.Context) error {
		msg, ok := echomw.GetMessage(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, msg.Root.Segment("BGM").Field("number").Leaf(0).Text)
	}
	e.POST("/detect", h, echomw.ParseEDI(reg, opts))
	e.POST("/typed/:type", h, echomw.ParseEDI(reg, echomw.Options{TypeParam: "type", MaxBody: opts.MaxBody}))
	return e
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestParseEDI_StoresMessage(t *testing.T) {
	e := server(registry(), echomw.Options{})
	for _, path := range []string{"/detect", "/typed/NOTE"} {
		w := post(e, path, "UNH+1+NOTE:1'BGM+N-1'")
		if w.Code != http.StatusOK || w.Body.String() != "N-1" {
			t.Fatalf("%s: status=%d body=%q", path, w.Code, w.Body.String())
		}
	}
}

func TestParseEDI_IssuesPayload(t *testing.T) {
	e := server(registry(), echomw.Options{})
	w := post(e, "/detect", "UNH+1+NOTE:1'BGM'")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Issues []struct {
			Path string `json:"path"`
			Code string `json:"code"`
			Line int    `json:"line"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Issues) != 1 || body.Issues[0].Code != edikit.CodeMissingMandatoryField || body.Issues[0].Path != "/BGM/number" || body.Issues[0].Line != 2 {
		t.Fatalf("unexpected payload %s", w.Body.String())
	}
}

func TestParseEDI_UnknownTypeAndLimits(t *testing.T) {
	e := server(registry(), echomw.Options{MaxBody: 16})
	if w := post(e, "/typed/ORDERS", "BGM+1'"); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if w := post(e, "/detect", "UNH+1+NOTE:1'BGM+N-1'"); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}
