package mediciones_test

import (
	"fmt"
	"log"

	"github.com/jcanovas/mediciones"
	"github.com/jcanovas/mediciones/compare"
	"github.com/jcanovas/mediciones/pdftext"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require files.

func Example_parseBudget() {
	result, err := mediciones.Open("presupuesto.pdf").Parse()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %.2f EUR\n", result.Project.Name, result.TotalAmount())

	for _, ch := range result.Project.Chapters {
		fmt.Printf("%s %s: %.2f\n", ch.Code, ch.Name, ch.Total)
	}

	for _, w := range result.Warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_parseWithOptions() {
	result, err := mediciones.Open("presupuesto.pdf").
		Pages(1, 2, 3). // Specific pages
		Parse()
	_ = result
	_ = err
}

func Example_inspectLines() {
	// See exactly what the classifier will consume.
	lines, err := mediciones.Open("presupuesto.pdf").Lines()
	if err != nil {
		log.Fatal(err)
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}

func Example_ownSourceLifecycle() {
	doc, err := pdftext.Open("presupuesto.pdf")
	if err != nil {
		log.Fatal(err)
	}
	defer doc.Close()

	result, err := mediciones.FromSource(doc).Parse()
	_ = result
	_ = err
}

func Example_crossValidate() {
	result, err := mediciones.Open("presupuesto.pdf").Parse()
	if err != nil {
		log.Fatal(err)
	}

	// Cross-validate against an independently produced tree, for
	// example one reconstructed by an LLM from the same document.
	other, err := compare.DecodeProject(llmTreeJSON)
	if err != nil {
		log.Fatal(err)
	}

	report := result.CompareWith(other)
	fmt.Printf("match: %.1f%% (%d validated, %d discrepant)\n",
		report.MatchPercent, report.Validated, report.Discrepant)
	for _, d := range report.Discrepancies {
		fmt.Printf("  %s: %s\n", d.Code, d.Reason)
	}
}

var llmTreeJSON = []byte(`{"name":"PROYECTO","chapters":[]}`)
