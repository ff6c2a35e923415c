package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"
	"testing"

	"resume-tailor/resume/model"
)

const templatePath = "../../assets/templates/resume.docx"

func loadTemplate(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(templatePath)
	if err != nil {
		t.Fatalf("read template failed: %v", err)
	}
	return data
}

func fullRecord() model.Record {
	return model.Record{
		Name: "Ada Lovelace",
		Contact: model.Contact{
			Email:       "ada@example.com",
			PhoneNumber: "555-555-5555",
			LinkedinURL: "https://linkedin.com/in/ada",
			Github:      "https://github.com/ada",
		},
		Summary: "Engineer with a decade of experience.",
		Experience: []model.Experience{
			{
				Company:  "Example Corp",
				Dates:    "01/2020 - Present",
				Location: "Remote",
				Position: "Staff Engineer",
				Bullets:  []string{"Shipped the thing.", "Shipped another thing."},
			},
		},
		Skills: []model.SkillSection{
			{Section: "Technical Skills", List: []string{"Go", "PostgreSQL"}},
			{Section: "Soft Skills", List: []string{"Mentoring"}},
		},
		Education: []model.Education{
			{School: "State University", Location: "Austin, TX", Dates: "2012 - 2016", Program: "BS in Computer Science"},
		},
		Certifications: []model.Certification{
			{Name: "AWS SA", Issued: "06/2022"},
		},
	}
}

func TestRenderResumeExpandsLoops(t *testing.T) {
	docxBytes, err := RenderResume(loadTemplate(t), fullRecord())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml failed: %v", err)
	}

	assertContains(t, documentXML, "Ada Lovelace")
	assertContains(t, documentXML, "ada@example.com | 555-555-5555 | https://linkedin.com/in/ada | https://github.com/ada")
	assertContains(t, documentXML, "Engineer with a decade of experience.")
	assertContains(t, documentXML, "Example Corp")
	assertContains(t, documentXML, "Shipped the thing.")
	assertContains(t, documentXML, "Shipped another thing.")
	assertContains(t, documentXML, "Technical Skills")
	assertContains(t, documentXML, "Go, PostgreSQL")
	assertContains(t, documentXML, "State University")
	assertContains(t, documentXML, "BS in Computer Science")
	assertContains(t, documentXML, "AWS SA")

	if strings.Contains(documentXML, "{{") || strings.Contains(documentXML, "}}") {
		t.Fatalf("expected no template tokens, found %q", findRemainingToken(documentXML))
	}
}

func TestRenderResumePreservesEntryOrder(t *testing.T) {
	record := fullRecord()
	// Deliberately not alphabetical, so any resort of the loop items shows up.
	record.Experience = []model.Experience{
		{
			Company:  "Orbit Systems",
			Dates:    "03/2022 - Present",
			Location: "Remote",
			Position: "Principal Engineer",
			Bullets:  []string{"Led the platform migration.", "Cut deploy times in half."},
		},
		{
			Company:  "Granite Labs",
			Dates:    "06/2018 - 03/2022",
			Location: "Denver, CO",
			Position: "Senior Engineer",
			Bullets:  []string{"Built the billing pipeline.", "Mentored four engineers."},
		},
		{
			Company:  "Harbor Analytics",
			Dates:    "07/2015 - 06/2018",
			Location: "Boston, MA",
			Position: "Engineer",
			Bullets:  []string{"Shipped the reporting API."},
		},
	}
	record.Education = []model.Education{
		{School: "State University", Location: "Austin, TX", Dates: "2012 - 2016", Program: "BS in Computer Science"},
		{School: "City College", Location: "Boston, MA", Dates: "2010 - 2012", Program: "AS in Mathematics"},
	}

	docxBytes, err := RenderResume(loadTemplate(t), record)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml failed: %v", err)
	}

	assertOrdered(t, documentXML, "Orbit Systems", "Granite Labs", "Harbor Analytics")
	assertOrdered(t, documentXML, "Led the platform migration.", "Cut deploy times in half.", "Built the billing pipeline.", "Mentored four engineers.", "Shipped the reporting API.")
	// Bullets stay under their own entry.
	assertOrdered(t, documentXML, "Orbit Systems", "Cut deploy times in half.", "Granite Labs", "Built the billing pipeline.", "Harbor Analytics", "Shipped the reporting API.")
	assertOrdered(t, documentXML, "Technical Skills", "Soft Skills")
	assertOrdered(t, documentXML, "State University", "City College")
}

func TestRenderResumeRemovesEmptySections(t *testing.T) {
	record := model.Record{
		Name:    "Grace Hopper",
		Summary: "Compiler pioneer.",
	}

	docxBytes, err := RenderResume(loadTemplate(t), record)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml failed: %v", err)
	}

	assertContains(t, documentXML, "Grace Hopper")
	assertContains(t, documentXML, "Compiler pioneer.")
	assertNotContains(t, documentXML, "Certifications")
	assertNotContains(t, documentXML, ">Education<")
	if strings.Contains(documentXML, "{{") || strings.Contains(documentXML, "}}") {
		t.Fatalf("expected no template tokens, found %q", findRemainingToken(documentXML))
	}
}

func TestRenderResumeRequiresName(t *testing.T) {
	if _, err := RenderResume(loadTemplate(t), model.Record{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRenderResumeProducesValidDocx(t *testing.T) {
	docxBytes, err := RenderResume(loadTemplate(t), fullRecord())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		t.Fatalf("zip reader failed: %v", err)
	}

	required := map[string]bool{
		"[Content_Types].xml": false,
		"_rels/.rels":         false,
		"word/document.xml":   false,
	}
	for _, file := range reader.File {
		name := normalizeZipName(file.Name)
		if _, ok := required[name]; ok {
			required[name] = true
		}
	}
	for name, found := range required {
		if !found {
			t.Fatalf("expected docx to contain %s", name)
		}
	}

	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml failed: %v", err)
	}

	var doc struct {
		XMLName xml.Name `xml:"document"`
	}
	if err := xml.Unmarshal([]byte(documentXML), &doc); err != nil {
		t.Fatalf("document.xml parse failed: %v", err)
	}
}

func TestRenderDocumentXMLSplitTokens(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` +
		`<w:p><w:r><w:t>{{NA</w:t></w:r><w:r><w:t>ME}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>{{CON</w:t></w:r><w:r><w:t>TACT}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>{{SUMMARY}}</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	record := model.Record{
		Name:    "Ada Lovelace",
		Contact: model.Contact{Email: "ada@example.com"},
		Summary: "Summary line.",
	}

	rendered, err := renderDocumentXMLText(documentXML, record)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	assertContains(t, rendered, "Ada Lovelace")
	assertContains(t, rendered, "ada@example.com")
	assertContains(t, rendered, "Summary line.")
	if strings.Contains(rendered, "{{") || strings.Contains(rendered, "}}") {
		t.Fatalf("expected no template tokens, found %q", findRemainingToken(rendered))
	}
}

func readDocumentXML(docxBytes []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", err
	}
	for _, file := range reader.File {
		if normalizeZipName(file.Name) == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()

			content, err := io.ReadAll(rc)
			if err != nil {
				return "", err
			}
			return string(content), nil
		}
	}
	return "", io.EOF
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected to contain %q", needle)
	}
}

func assertOrdered(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	last := -1
	for _, needle := range needles {
		idx := strings.Index(haystack, needle)
		if idx < 0 {
			t.Fatalf("expected to contain %q", needle)
		}
		if idx <= last {
			t.Fatalf("%q appears out of order", needle)
		}
		last = idx
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected to not contain %q", needle)
	}
}
