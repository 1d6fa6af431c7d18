package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"pdf-rag/internal/models"
)

const defaultPageNumber = 1

// Parse extracts the text of a document as ordered pages. Formats without a
// page concept (docx, txt, md) come back as a single page; spreadsheets and
// slide decks map one sheet/slide to one page.
func Parse(filePath string) ([]models.Page, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".pptx":
		return parsePPTX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	case ".ods":
		return parseODS(filePath)
	case ".md":
		return parseMarkdown(filePath)
	case ".txt":
		return parseText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func parsePDF(filePath string) ([]models.Page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var pages []models.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, models.Page{Text: pageText, Number: i})
	}
	return pages, nil
}

func parseDOCX(filePath string) ([]models.Page, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := r.Editable()
	content := doc.GetContent()
	var sb strings.Builder
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}
	if sb.Len() == 0 {
		return nil, nil
	}
	return []models.Page{{Text: sb.String(), Number: defaultPageNumber}}, nil
}

func parsePPTX(filePath string) ([]models.Page, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []models.Page
	slideNum := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideNum++
		slideText := extractTextFromXML(string(data))
		if strings.TrimSpace(slideText) == "" {
			continue
		}
		pages = append(pages, models.Page{Text: slideText, Number: slideNum})
	}
	return pages, nil
}

func parseXLSX(filePath string) ([]models.Page, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var pages []models.Page
	for sheetNum, sheet := range f.Sheets {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				sb.WriteString(cell.String() + "\t")
			}
			sb.WriteString("\n")
		}
		if strings.TrimSpace(sb.String()) == "" {
			continue
		}
		pages = append(pages, models.Page{Text: sb.String(), Number: sheetNum + 1})
	}
	return pages, nil
}

func parseODS(filePath string) ([]models.Page, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []models.Page
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				sb.WriteString(cell + "\t")
			}
			sb.WriteString("\n")
		}
		if strings.TrimSpace(sb.String()) == "" {
			continue
		}
		pages = append(pages, models.Page{Text: sb.String(), Number: sheetNum + 1})
	}
	return pages, nil
}

func parseText(filePath string) ([]models.Page, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []models.Page{{Text: string(data), Number: defaultPageNumber}}, nil
}

// parseMarkdown strips markdown syntax by walking the goldmark AST and
// keeping only the text nodes, block boundaries becoming paragraph breaks.
func parseMarkdown(filePath string) ([]models.Page, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := n.(*ast.Text); !ok && n.Type() == ast.TypeBlock && sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, nil
	}
	return []models.Page{{Text: content, Number: defaultPageNumber}}, nil
}

func extractTextFromXML(xmlContent string) string {
	var sb strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			sb.WriteString(part[:endIdx] + " ")
		}
	}
	return sb.String()
}
