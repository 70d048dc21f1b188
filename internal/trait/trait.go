// Package trait renders single model attributes as HTML form inputs or
// read-only view fragments.
//
// Every trait except Image produces a table row:
//
//	<tr class="trait"><td>Title</td><td>element</td></tr>
//
// A form input is bound to its form through the form attribute, so the rows
// may live in a table outside the <form> element. The trait's name is the
// key the submitted value arrives under.
package trait

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Trait interface {
	Name() string
	IsImage() bool
	InputElement(form string, withValue bool) template.HTML
	OutputElement() template.HTML
}

var titler = cases.Title(language.English)

// Title turns an attribute name like "date_created" into "Date Created".
func Title(name string) string {
	return titler.String(strings.ReplaceAll(name, "_", " "))
}

// ImageURL maps a stored picture path to a browser URL. Relative paths live
// under /static.
func ImageURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "/"):
		return path
	default:
		return "/static/" + path
	}
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func row(name, element string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<tr class="trait"><td>%s</td><td>%s</td></tr>`, esc(Title(name)), element))
}

func input(kind, name, form, value string) string {
	return fmt.Sprintf(`<input type="%s" name="%s" form="%s" value="%s">`,
		kind, esc(name), esc(form), esc(value))
}

// Text is a single line string attribute.
type Text struct {
	name  string
	value string
}

func NewText(name, value string) *Text { return &Text{name: name, value: value} }

func (t *Text) Name() string  { return t.name }
func (t *Text) IsImage() bool { return false }

func (t *Text) InputElement(form string, withValue bool) template.HTML {
	value := ""
	if withValue {
		value = t.value
	}
	return row(t.name, input("text", t.name, form, value))
}

func (t *Text) OutputElement() template.HTML {
	return row(t.name, esc(t.value))
}

// Image is a picture attribute. Its input is a URL text field; its output
// is a bare <img>, not a table row.
type Image struct {
	name string
	url  string
}

func NewImage(name, url string) *Image { return &Image{name: name, url: url} }

func (t *Image) Name() string  { return t.name }
func (t *Image) IsImage() bool { return true }

func (t *Image) InputElement(form string, withValue bool) template.HTML {
	value := ""
	if withValue {
		value = t.url
	}
	return row(t.name, input("text", t.name, form, value))
}

func (t *Image) OutputElement() template.HTML {
	return template.HTML(fmt.Sprintf(`<img src="%s" class="img-responsive">`, esc(ImageURL(t.url))))
}

// ImageUpload is a file input. It has no visible output.
type ImageUpload struct {
	name string
}

func NewImageUpload(name string) *ImageUpload { return &ImageUpload{name: name} }

func (t *ImageUpload) Name() string  { return t.name }
func (t *ImageUpload) IsImage() bool { return false }

func (t *ImageUpload) InputElement(form string, _ bool) template.HTML {
	return row(t.name, fmt.Sprintf(`<input type="file" name="%s" form="%s">`, esc(t.name), esc(form)))
}

func (t *ImageUpload) OutputElement() template.HTML {
	return "<!-- image upload has no output -->"
}

// TextArea is a multi-line string attribute.
type TextArea struct {
	name  string
	value string
}

func NewTextArea(name, value string) *TextArea { return &TextArea{name: name, value: value} }

func (t *TextArea) Name() string  { return t.name }
func (t *TextArea) IsImage() bool { return false }

func (t *TextArea) InputElement(form string, withValue bool) template.HTML {
	value := ""
	if withValue {
		value = t.value
	}
	return row(t.name, fmt.Sprintf(`<textarea name="%s" form="%s">%s</textarea>`, esc(t.name), esc(form), esc(value)))
}

func (t *TextArea) OutputElement() template.HTML {
	return row(t.name, esc(t.value))
}

// Select picks one value out of options.
type Select struct {
	name    string
	value   string
	options []string
}

func NewSelect(name, value string, options []string) *Select {
	return &Select{name: name, value: value, options: options}
}

func (t *Select) Name() string  { return t.name }
func (t *Select) IsImage() bool { return false }

// InputElement always marks the current value selected so a new form
// preselects the default option.
func (t *Select) InputElement(form string, _ bool) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<select name="%s" form="%s">`, esc(t.name), esc(form))
	for _, opt := range t.options {
		selected := ""
		if opt == t.value {
			selected = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(Title(opt)))
	}
	b.WriteString(`</select>`)
	return row(t.name, b.String())
}

func (t *Select) OutputElement() template.HTML {
	return row(t.name, esc(Title(t.value)))
}

// Date is a calendar date in YYYY-MM-DD form. An empty value means today.
type Date struct {
	name  string
	value string
}

const dateLayout = "2006-01-02"

func NewDate(name, value string) *Date {
	if value == "" {
		value = time.Now().Format(dateLayout)
	}
	return &Date{name: name, value: value}
}

func (t *Date) Name() string  { return t.name }
func (t *Date) IsImage() bool { return false }
func (t *Date) Value() string { return t.value }

// InputElement always carries a value so the picker opens on a real date.
func (t *Date) InputElement(form string, _ bool) template.HTML {
	return row(t.name, input("date", t.name, form, t.value))
}

func (t *Date) OutputElement() template.HTML {
	return row(t.name, esc(t.value))
}
