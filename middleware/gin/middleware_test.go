package ginmw_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/dsl"
	ginmw "github.com/reoring/edikit/middleware/gin"
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

func router(reg *edikit.Registry, opts ginmw.Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := func(c *gin.Context) {
		msg, ok := ginmw.GetMessage(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, msg.Root.Segment("BGM").Field("number").Leaf(0).Text)
	}
	r.POST("/detect", ginmw.ParseEDI(reg, opts), h)
	r.POST("/typed/:type", ginmw.ParseEDI(reg, ginmw.Options{TypeParam: "type", MaxBody: opts.MaxBody}), h)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseEDI_StoresMessage(t *testing.T) {
	r := router(registry(), ginmw.Options{})
	for _, path := range []string{"/detect", "/typed/NOTE"} {
		w := post(r, path, "UNH+1+NOTE:1'BGM+N-1'")
		if w.Code != http.StatusOK || w.Body.String() != "N-1" {
			t.Fatalf("%s: status=%d body=%q", path, w.Code, w.Body.String())
		}
	}
}

func TestParseEDI_IssuesPayload(t *testing.T) {
	r := router(registry(), ginmw.Options{})
	w := post(r, "/detect", "UNH+1+NOTE:1'DTM+x'")
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
	if len(body.Issues) != 1 || body.Issues[0].Code != edikit.CodeUnexpectedSegmentTag || body.Issues[0].Line != 2 {
		t.Fatalf("unexpected payload %s", w.Body.String())
	}
}

func TestParseEDI_UnknownTypeAndLimits(t *testing.T) {
	r := router(registry(), ginmw.Options{MaxBody: 16})
	if w := post(r, "/typed/ORDERS", "BGM+1'"); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if w := post(r, "/detect", "UNH+1+NOTE:1'BGM+N-1'"); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}
