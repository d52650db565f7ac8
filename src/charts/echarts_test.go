package charts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
)

func TestLineData_NullsBecomeDash(t *testing.T) {
	nan := pipeline.Null()
	got := lineData([]float64{nan, 0.5, nan}, MarkerRoundRect, 8)
	if got[0].Value != echartsNull || got[2].Value != echartsNull {
		t.Fatalf("nulls not mapped to %q: %+v", echartsNull, got)
	}
	if got[1].Value != 0.5 || got[1].Symbol != MarkerRoundRect || got[1].SymbolSize != 8 {
		t.Fatalf("value point = %+v", got[1])
	}
	if got[0].Symbol != "" {
		t.Fatalf("null point should carry no symbol")
	}
}

func TestHTMLFactory_TrendAndPage(t *testing.T) {
	f := HTMLFactory{}
	trend, err := f.Trend(NewTrendSpec("Kenya", samplePair(), "metric tons"))
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	cmp, err := f.Comparison(NewComparisonSpec(config.DefaultConfig().Comparison))
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	html, err := trend.(*HTMLSurface).HTML()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Historical CO₂", "Predicted CO₂ (2030)", `"-"`, "2030"} {
		if !bytes.Contains(html, []byte(want)) {
			t.Errorf("trend html missing %q", want)
		}
	}

	var page strings.Builder
	body := `<div id="summary">Kenya</div>`
	if err := WritePage(&page, "Kenya", body, trend.(*HTMLSurface), cmp.(*HTMLSurface)); err != nil {
		t.Fatalf("write page: %v", err)
	}
	out := page.String()
	if !strings.Contains(out, body) {
		t.Fatalf("page missing injected body")
	}
	if !strings.Contains(out, "Nigeria") {
		t.Fatalf("page missing comparison bars")
	}

	if err := cmp.Close(); err != nil {
		t.Fatal(err)
	}
	if err := WritePage(&page, "Kenya", "", cmp.(*HTMLSurface)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := WritePage(&page, "Kenya", ""); err == nil {
		t.Fatalf("expected error with no charts")
	}
}

func TestHTMLFactory_TooltipCarriesUnit(t *testing.T) {
	s, err := HTMLFactory{}.Trend(NewTrendSpec("Kenya", samplePair(), "metric tons"))
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	html, _ := s.(*HTMLSurface).HTML()
	out := string(html)
	if !strings.Contains(out, `toFixed(3) + ' metric tons'`) {
		t.Fatalf("tooltip formatter missing unit suffix")
	}
	if strings.Contains(out, "__f__") {
		t.Fatalf("function marker leaked into page")
	}
}

func TestTooltipFormatter_SanitizesUnit(t *testing.T) {
	got := string(tooltipFormatter(`tons'); alert("x`))
	if !strings.Contains(got, `toFixed(3) + ' tons); alert(x')`) {
		t.Fatalf("unit not kept inside one string literal: %s", got)
	}
	if !strings.Contains(string(tooltipFormatter("")), `toFixed(3) + '')`) {
		t.Fatalf("empty unit should add no suffix")
	}
}

func TestTrendSpec_Tooltip(t *testing.T) {
	spec := NewTrendSpec("Kenya", samplePair(), "metric tons")
	if got := spec.Tooltip("Historical CO₂", 0.4); got != "Historical CO₂: 0.400 metric tons" {
		t.Fatalf("tooltip = %q", got)
	}
	if got := spec.Tooltip("Historical CO₂", pipeline.Null()); got != "Historical CO₂" {
		t.Fatalf("null tooltip = %q", got)
	}
	spec.Unit = ""
	if got := spec.Tooltip("Predicted CO₂ (2030)", 0.51); got != "Predicted CO₂ (2030): 0.510" {
		t.Fatalf("unitless tooltip = %q", got)
	}
}
