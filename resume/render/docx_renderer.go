package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"resume-tailor/resume/model"
)

// RenderResume fills the DOCX template with the resume content and
// returns the finished document. The template is the raw bytes of a
// .docx file carrying {{...}} tokens in word/document.xml.
func RenderResume(template []byte, resume model.Record) ([]byte, error) {
	if err := resume.Validate(); err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	defer writer.Close()

	for _, file := range reader.File {
		if normalizeZipName(file.Name) == "word/document.xml" {
			updated, err := renderDocumentXML(file, resume)
			if err != nil {
				return nil, err
			}
			if err := writeZipFile(writer, file, updated); err != nil {
				return nil, err
			}
			continue
		}

		content, err := readZipFile(file)
		if err != nil {
			return nil, err
		}
		if err := writeZipFile(writer, file, content); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return output.Bytes(), nil
}

func renderDocumentXML(file *zip.File, resume model.Record) ([]byte, error) {
	content, err := readZipFile(file)
	if err != nil {
		return nil, err
	}

	xmlText, err := renderDocumentXMLText(string(content), resume)
	if err != nil {
		return nil, err
	}

	return []byte(xmlText), nil
}

func renderDocumentXMLText(xmlText string, resume model.Record) (string, error) {
	rootStart, rootEnd, err := extractRootTags(xmlText)
	if err != nil {
		return "", err
	}
	root, header, err := parseXMLDocument(xmlText)
	if err != nil {
		return "", err
	}

	body := findBodyNode(root)
	if err := expandExperienceInContainer(body, resume.Experience); err != nil {
		return "", err
	}
	if err := expandSkillsInContainer(body, resume.Skills); err != nil {
		return "", err
	}
	if err := expandEducationInContainer(body, resume.Education); err != nil {
		return "", err
	}
	if err := expandCertificationsInContainer(body, resume.Certifications); err != nil {
		return "", err
	}

	replaceTokensInNode(root, map[string]string{
		"{{NAME}}":    resume.Name,
		"{{CONTACT}}": resume.Contact.Line(),
		"{{SUMMARY}}": resume.Summary,
	})
	// Bullet tokens outside an experience block have nothing to bind to.
	replaceTokensInNode(root, map[string]string{
		"{{#BULLETS}}":    "",
		"{{/BULLETS}}":    "",
		"{{BULLET_ITEM}}": "",
	})
	removeEmptySections(root, resume)
	normalizeParagraphNesting(root)
	if err := validateNoTokens(root); err != nil {
		return "", err
	}

	xmlText, err = encodeXMLDocument(header, root, rootStart, rootEnd)
	if err != nil {
		return "", err
	}

	if err := validateDocumentXMLStrict(xmlText); err != nil {
		return "", err
	}
	if err := validateDocumentXMLStructure(xmlText); err != nil {
		return "", err
	}

	if token := findRemainingToken(xmlText); token != "" {
		return "", fmt.Errorf("template token remains in document.xml: %s", token)
	}

	return xmlText, nil
}

func expandExperienceInContainer(container *xmlNode, items []model.Experience) error {
	return expandLoopInContainerWithRenderer(container, "EXPERIENCE", len(items), func(template []*xmlNode, idx int) ([]*xmlNode, error) {
		item := items[idx]
		nodes := cloneNodes(template)
		tmp := &xmlNode{Name: xml.Name{Local: "root"}, Children: nodes}

		if err := expandLoopInContainer(tmp, "BULLETS", item.Bullets, "{{BULLET_ITEM}}"); err != nil {
			return nil, err
		}
		expandBulletsFallback(tmp, item.Bullets)

		replaceTokensInNode(tmp, map[string]string{
			"{{EXP_COMPANY}}":  item.Company,
			"{{EXP_POSITION}}": item.Position,
			"{{EXP_LOCATION}}": item.Location,
			"{{EXP_DATES}}":    item.Dates,
		})

		return tmp.Children, nil
	})
}

func expandSkillsInContainer(container *xmlNode, items []model.SkillSection) error {
	return expandLoopInContainerWithRenderer(container, "SKILLS", len(items), func(template []*xmlNode, idx int) ([]*xmlNode, error) {
		item := items[idx]
		nodes := cloneNodes(template)
		tmp := &xmlNode{Name: xml.Name{Local: "root"}, Children: nodes}

		replaceTokensInNode(tmp, map[string]string{
			"{{SKILL_SECTION}}": item.Section,
			"{{SKILL_LIST}}":    strings.Join(item.List, ", "),
		})

		return tmp.Children, nil
	})
}

func expandEducationInContainer(container *xmlNode, items []model.Education) error {
	return expandLoopInContainerWithRenderer(container, "EDUCATION", len(items), func(template []*xmlNode, idx int) ([]*xmlNode, error) {
		item := items[idx]
		nodes := cloneNodes(template)
		tmp := &xmlNode{Name: xml.Name{Local: "root"}, Children: nodes}

		replaceTokensInNode(tmp, map[string]string{
			"{{EDU_SCHOOL}}":   item.School,
			"{{EDU_PROGRAM}}":  item.Program,
			"{{EDU_LOCATION}}": item.Location,
			"{{EDU_DATES}}":    item.Dates,
		})

		return tmp.Children, nil
	})
}

func expandCertificationsInContainer(container *xmlNode, items []model.Certification) error {
	return expandLoopInContainerWithRenderer(container, "CERTIFICATIONS", len(items), func(template []*xmlNode, idx int) ([]*xmlNode, error) {
		item := items[idx]
		nodes := cloneNodes(template)
		tmp := &xmlNode{Name: xml.Name{Local: "root"}, Children: nodes}

		replaceTokensInNode(tmp, map[string]string{
			"{{CERT_NAME}}":   item.Name,
			"{{CERT_ISSUED}}": item.Issued,
		})

		return tmp.Children, nil
	})
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return content, nil
}

func writeZipFile(writer *zip.Writer, source *zip.File, content []byte) error {
	header := source.FileHeader
	header.Name = normalizeZipName(source.Name)

	dst, err := writer.CreateHeader(&header)
	if err != nil {
		return err
	}
	if _, err := dst.Write(content); err != nil {
		return err
	}
	return nil
}

func normalizeZipName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

var tokenPattern = regexp.MustCompile(`{{[^}]+}}`)

func findRemainingToken(xmlText string) string {
	if match := tokenPattern.FindString(xmlText); match != "" {
		return match
	}
	if idx := strings.Index(xmlText, "{{"); idx != -1 {
		end := idx + 40
		if end > len(xmlText) {
			end = len(xmlText)
		}
		return xmlText[idx:end]
	}
	if idx := strings.Index(xmlText, "}}"); idx != -1 {
		start := idx - 40
		if start < 0 {
			start = 0
		}
		return xmlText[start : idx+2]
	}
	return ""
}

func removeEmptySections(root *xmlNode, resume model.Record) {
	sections := []struct {
		heading string
		empty   bool
	}{
		{"Summary", strings.TrimSpace(resume.Summary) == ""},
		{"Experience", len(resume.Experience) == 0},
		{"Skills", len(resume.Skills) == 0},
		{"Education", len(resume.Education) == 0},
		{"Certifications", len(resume.Certifications) == 0},
	}
	for _, section := range sections {
		if !section.empty {
			continue
		}
		removeParagraphs(root, func(p *xmlNode) bool {
			return strings.EqualFold(strings.TrimSpace(paragraphText(p)), section.heading)
		})
	}
}

func validateNoTokens(root *xmlNode) error {
	if root == nil {
		return nil
	}
	var failure error
	walkXML(root, func(n *xmlNode) bool {
		if !isElement(n, "p") {
			return true
		}
		if tokenPattern.MatchString(paragraphText(n)) {
			failure = fmt.Errorf("document.xml contains unresolved template tokens")
			return false
		}
		return true
	})
	return failure
}

func validateDocumentXMLStrict(xmlText string) error {
	rootStart, _, err := extractRootTags(xmlText)
	if err != nil {
		return err
	}
	declared := namespacesFromRootStart(rootStart)
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w\n%s", err, firstLines(xmlText, 5))
		}
		switch t := token.(type) {
		case xml.StartElement:
			if err := checkDeclaredNamespace(t.Name.Space, t.Name.Local, declared, "element", xmlText); err != nil {
				return err
			}
			for _, attr := range t.Attr {
				if err := checkDeclaredNamespace(attr.Name.Space, attr.Name.Local, declared, "attribute", xmlText); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateDocumentXMLStructure(xmlText string) error {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var stack []xml.Name
	type runState struct {
		seenText bool
	}
	var runs []runState

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w\n%s", err, firstLines(xmlText, 5))
		}
		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name)
			if isWmlElement(t.Name, "p") {
				for i := len(stack) - 2; i >= 0; i-- {
					if isWmlElement(stack[i], "p") {
						return fmt.Errorf("document.xml has nested <w:p>\n%s", firstLines(xmlText, 5))
					}
				}
			}
			if isWmlElement(t.Name, "r") {
				runs = append(runs, runState{})
			}
			if isWmlElement(t.Name, "t") && len(runs) > 0 {
				runs[len(runs)-1].seenText = true
			}
			if isWmlElement(t.Name, "rPr") && len(runs) > 0 && runs[len(runs)-1].seenText {
				return fmt.Errorf("document.xml has <w:rPr> after <w:t> in a run\n%s", firstLines(xmlText, 5))
			}
		case xml.EndElement:
			if isWmlElement(t.Name, "r") && len(runs) > 0 {
				runs = runs[:len(runs)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nil
}

func isWmlElement(name xml.Name, local string) bool {
	return name.Local == local && name.Space == wmlNamespace
}

func checkDeclaredNamespace(space, local string, declared map[string]string, kind string, xmlText string) error {
	if space == "" {
		return nil
	}
	prefix, ok := knownNamespacePrefixes[space]
	if !ok {
		return nil
	}
	if uri, ok := declared[prefix]; ok && uri == space {
		return nil
	}
	name := local
	if prefix != "" {
		name = prefix + ":" + local
	}
	return fmt.Errorf("document.xml missing root namespace for %s %s\n%s", kind, name, firstLines(xmlText, 5))
}

var knownNamespacePrefixes = map[string]string{
	wmlNamespace: "w",
	relNamespace: "r",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
}

func firstLines(text string, count int) string {
	if count <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > count {
		lines = lines[:count]
	}
	return strings.Join(lines, "\n")
}
