package classify

import "testing"

func classifyOne(t *testing.T, line string) ClassifiedLine {
	t.Helper()
	c := NewClassifier()
	cl, _ := c.Classify(line, Context{})
	return cl
}

func TestClassifyChapterKeyword(t *testing.T) {
	cl := classifyOne(t, "CAPÍTULO C01 ACTUACIONES EN CALYPO FADO")
	if cl.Tag != TagChapter {
		t.Fatalf("expected chapter, got %v", cl.Tag)
	}
	if cl.Section.Code != "C01" || cl.Section.Name != "ACTUACIONES EN CALYPO FADO" {
		t.Errorf("unexpected fields: %+v", cl.Section)
	}
}

func TestClassifyChapterImplicit(t *testing.T) {
	cl := classifyOne(t, "01 FASE 2")
	if cl.Tag != TagChapter {
		t.Fatalf("expected chapter, got %v", cl.Tag)
	}
	if cl.Section.Code != "01" || cl.Section.Name != "FASE 2" {
		t.Errorf("unexpected fields: %+v", cl.Section)
	}
}

func TestClassifySubchapterVariants(t *testing.T) {
	tests := []struct {
		line     string
		code     string
		name     string
		apartado bool
	}{
		{"SUBCAPÍTULO C08.01 CALLE TENERIFE", "C08.01", "CALLE TENERIFE", false},
		{"01.01 LEVANTADO DE ELEMENTOS", "01.01", "LEVANTADO DE ELEMENTOS", false},
		{"01.04.01 PAVIMENTO PERMEABLE", "01.04.01", "PAVIMENTO PERMEABLE", false},
		{"01.04.06REPOSICIÓN PAVIMENTO", "01.04.06", "REPOSICIÓN PAVIMENTO", false},
		{"APARTADO 02.01.03 RED DE SANEAMIENTO", "02.01.03", "RED DE SANEAMIENTO", true},
	}

	for _, tt := range tests {
		cl := classifyOne(t, tt.line)
		if cl.Tag != TagSubchapter {
			t.Errorf("%q: expected subchapter, got %v", tt.line, cl.Tag)
			continue
		}
		if cl.Section.Code != tt.code || cl.Section.Name != tt.name {
			t.Errorf("%q: unexpected fields: %+v", tt.line, cl.Section)
		}
		if cl.Section.FromApartadoKeyword != tt.apartado {
			t.Errorf("%q: apartado flag = %v, want %v",
				tt.line, cl.Section.FromApartadoKeyword, tt.apartado)
		}
	}
}

func TestClassifyPaginationNoise(t *testing.T) {
	for _, line := range []string{
		"62", "63 63", "1 2", "123", "",
		"- 23 -", "-24-",
		"Página 23", "página 4", "PÁGINA 12",
		"Pág. 23", "Pag 7",
		"Page 23", "P. 23", "P.5",
		"23 / 89", "23/89",
		"[23]", "[ 7 ]",
	} {
		cl := classifyOne(t, line)
		if cl.Tag != TagUnclassified {
			t.Errorf("%q: expected unclassified, got %v", line, cl.Tag)
		}
	}
}

func TestClassifyFooterKeepsItemOpen(t *testing.T) {
	// Footers in the middle of an open item must neither close it nor
	// become part of its description.
	c := NewClassifier()
	ctx := Context{}

	_, ctx = c.Classify("DEM06 Ml CORTE PAVIMENTO EXISTENTE", ctx)
	for _, footer := range []string{"23 / 89", "- 24 -", "Página 23"} {
		var cl ClassifiedLine
		cl, ctx = c.Classify(footer, ctx)
		if cl.Tag != TagUnclassified {
			t.Errorf("%q: expected unclassified, got %v", footer, cl.Tag)
		}
		if !ctx.ItemOpen {
			t.Fatalf("%q: footer closed the open item", footer)
		}
	}

	cl, _ := c.Classify("Corte de pavimento de aglomerado asfáltico.", ctx)
	if cl.Tag != TagItemDescription {
		t.Errorf("description after footers should still attach, got %v", cl.Tag)
	}
}

func TestClassifyLetterlessSectionRejected(t *testing.T) {
	// A digit code followed by punctuation and digits only is never a
	// section; real section names carry at least one letter.
	for _, line := range []string{"23 / 89 (2)", "12 -", "07 ()"} {
		cl := classifyOne(t, line)
		if cl.Tag == TagChapter || cl.Tag == TagSubchapter {
			t.Errorf("%q: letterless line classified as section", line)
		}
	}
}

func TestClassifyTotalVariants(t *testing.T) {
	tests := []struct {
		line   string
		level  string
		code   string
		amount string
	}{
		{"TOTAL SUBCAPÍTULO 01.03    5000,00", "SUBCAPÍTULO", "01.03", "5000,00"},
		{"TOTAL SUBCAPÍTULO C08.01 CALLE TENERIFE......................... 110.289,85",
			"SUBCAPÍTULO", "C08.01", "110.289,85"},
		{"TOTAL CAPÍTULO 01 ................ 49.578,18", "CAPÍTULO", "01", "49.578,18"},
		{"TOTAL 01.04.01....... 49.578,18", "", "01.04.01", "49.578,18"},
		{"TOTAL C08.01 .......... 500,00", "", "C08.01", "500,00"},
		{"TOTAL........................ 1.605,90", "", "", "1.605,90"},
	}

	for _, tt := range tests {
		cl := classifyOne(t, tt.line)
		if cl.Tag != TagTotal {
			t.Errorf("%q: expected total, got %v", tt.line, cl.Tag)
			continue
		}
		if cl.Total.LevelHint != tt.level || cl.Total.Code != tt.code || cl.Total.AmountText != tt.amount {
			t.Errorf("%q: unexpected fields: %+v", tt.line, cl.Total)
		}
	}
}

func TestClassifyDeductionIgnored(t *testing.T) {
	for _, line := range []string{
		"A DEDUCIR HUECOS 2,00 1,50 3,00",
		"A DESCONTAR ZONA VERDE 10,00 2,00 20,00",
	} {
		cl := classifyOne(t, line)
		if cl.Tag != TagUnclassified {
			t.Errorf("%q: expected unclassified, got %v", line, cl.Tag)
		}
	}
}

func TestClassifyItemHeaderWithoutNumbers(t *testing.T) {
	cl := classifyOne(t, "DEM06    Ml CORTE PAVIMENTO EXISTENTE")
	if cl.Tag != TagItemHeader {
		t.Fatalf("expected item header, got %v", cl.Tag)
	}
	if cl.Item.Code != "DEM06" || cl.Item.Unit != "Ml" || cl.Item.Summary != "CORTE PAVIMENTO EXISTENTE" {
		t.Errorf("unexpected fields: %+v", cl.Item)
	}
	if cl.Item.HasNumbers() {
		t.Error("header without trailing numbers should not report numbers")
	}
}

func TestClassifyItemHeaderWithNumbers(t *testing.T) {
	cl := classifyOne(t, "U01AB100 m DEMOLICIÓN Y LEVANTADO DE BORDILLO 630,00 5,40 3.402,00")
	if cl.Tag != TagItemHeader {
		t.Fatalf("expected item header, got %v", cl.Tag)
	}
	it := cl.Item
	if it.Code != "U01AB100" || it.Unit != "m" {
		t.Errorf("unexpected code/unit: %+v", it)
	}
	if it.Summary != "DEMOLICIÓN Y LEVANTADO DE BORDILLO" {
		t.Errorf("unexpected summary: %q", it.Summary)
	}
	if it.QuantityText != "630,00" || it.PriceText != "5,40" || it.AmountText != "3.402,00" {
		t.Errorf("unexpected numbers: %+v", it)
	}
}

func TestClassifyEmbeddedNumbersStayInSummary(t *testing.T) {
	// Only the trailing triplet is the numeric tail; the 3 and 10 belong
	// to the summary.
	cl := classifyOne(t, "E02AM010 m2 DESBROCE TERRENO ZONA 3 DE 10 cm 450,40 2,34 1.053,94")
	if cl.Tag != TagItemHeader {
		t.Fatalf("expected item header, got %v", cl.Tag)
	}
	if cl.Item.Summary != "DESBROCE TERRENO ZONA 3 DE 10 cm" {
		t.Errorf("unexpected summary: %q", cl.Item.Summary)
	}
	if cl.Item.QuantityText != "450,40" || cl.Item.AmountText != "1.053,94" {
		t.Errorf("unexpected numbers: %+v", cl.Item)
	}
}

func TestClassifyNoUnitFallback(t *testing.T) {
	cl := classifyOne(t, "APUDm23E27HE01m02 ESMALTE-LACA SATINADO S/METAL 808,50 13,17 10.647,95")
	if cl.Tag != TagItemHeader {
		t.Fatalf("expected item header, got %v", cl.Tag)
	}
	if cl.Item.Unit != PlaceholderUnit || !cl.Item.PlaceholderUnit {
		t.Errorf("expected placeholder unit, got %+v", cl.Item)
	}
	if cl.Item.Code != "APUDm23E27HE01m02" {
		t.Errorf("unexpected code: %q", cl.Item.Code)
	}
}

func TestClassifyAmountShapedCodeRejected(t *testing.T) {
	// A stray total row must not become a line item whose "code" is an
	// amount.
	cl := classifyOne(t, "29.672,05 RESTO DE OBRA 1,00 2,00 3,00")
	if cl.Tag == TagItemHeader {
		t.Errorf("amount-shaped code should not produce an item header")
	}
}

func TestClassifyNumbersOnlyLine(t *testing.T) {
	cl := classifyOne(t, "                                                630,00    1,12    705,60")
	if cl.Tag != TagItemNumbers {
		t.Fatalf("expected item numbers, got %v", cl.Tag)
	}
	n := cl.Numbers
	if n.QuantityText != "630,00" || n.PriceText != "1,12" || n.AmountText != "705,60" {
		t.Errorf("unexpected numbers: %+v", n)
	}
}

func TestClassifyTableHeaderNoise(t *testing.T) {
	for _, line := range []string{
		"CÓDIGO RESUMEN CANTIDAD PRECIO IMPORTE",
		"CODIGO RESUMEN UDS CANTIDAD", // accent-less scan output
	} {
		cl := classifyOne(t, line)
		if cl.Tag != TagTableHeader {
			t.Errorf("%q: expected table header, got %v", line, cl.Tag)
		}
	}
}

func TestClassifyDescriptionNeedsOpenItem(t *testing.T) {
	c := NewClassifier()
	text := "Corte de pavimento de aglomerado asfáltico u hormigón."

	cl, _ := c.Classify(text, Context{ItemOpen: true})
	if cl.Tag != TagItemDescription {
		t.Errorf("with open item expected description, got %v", cl.Tag)
	}

	cl, _ = c.Classify(text, Context{})
	if cl.Tag != TagUnclassified {
		t.Errorf("without open item expected unclassified, got %v", cl.Tag)
	}
}

func TestContextThreading(t *testing.T) {
	c := NewClassifier()
	ctx := Context{}

	_, ctx = c.Classify("DEM06 Ml CORTE PAVIMENTO EXISTENTE", ctx)
	if !ctx.ItemOpen {
		t.Fatal("item header should open the context")
	}

	_, ctx = c.Classify("630,00 1,12 705,60", ctx)
	if ctx.ItemOpen {
		t.Fatal("numbers line should close the context")
	}

	_, ctx = c.Classify("U01AB100 m LEVANTADO DE BORDILLO", ctx)
	_, ctx = c.Classify("01.02 FIRMES Y PAVIMENTOS", ctx)
	if ctx.ItemOpen {
		t.Fatal("section line should close the context")
	}
}

func TestClassifyAllMergesContinuations(t *testing.T) {
	lines := []string{
		"E28BM010 ud DEPÓSITO DE AGUA DE 200 L",
		"CON SOPORTE METÁLICO",
		"1,00 50,00 50,00",
	}

	c := NewClassifier()
	out := c.ClassifyAll(lines)

	if out[0].Tag != TagItemHeader {
		t.Fatalf("expected item header, got %v", out[0].Tag)
	}
	if out[0].Item.Summary != "DEPÓSITO DE AGUA DE 200 L CON SOPORTE METÁLICO" {
		t.Errorf("continuation not merged: %q", out[0].Item.Summary)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 classified lines after merging, got %d", len(out))
	}
	if out[1].Tag != TagItemNumbers {
		t.Errorf("expected trailing numbers line, got %v", out[1].Tag)
	}
}

func TestValidCode(t *testing.T) {
	valid := []string{"DEM06", "U01AB100", "E08PEA090", "RETIRADA001"}
	for _, code := range valid {
		if !ValidCode(code) {
			t.Errorf("ValidCode(%q) should be true", code)
		}
	}

	invalid := []string{"", "U1", "TOTAL", "CÓDIGO", "IMPORTE", "ABC", "A1X"}
	for _, code := range invalid {
		if ValidCode(code) {
			t.Errorf("ValidCode(%q) should be false", code)
		}
	}
}
