// Package view renders the HTML pages.  Every page template is parsed
// together with layout.html once at startup; per request the set is cloned
// so the CSRF helpers can see the request.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/phone"
)

//go:embed templates/*.html
var templateFS embed.FS

const layout = "layout.html"

// md converts class descriptions.  Raw HTML in the input is escaped
// (WithUnsafe is not set).
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page template with the layout.
func New() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, p := range names {
		name := path.Base(p)
		if name == layout {
			continue
		}
		t, err := template.New(layout).Funcs(funcs(nil)).ParseFS(templateFS, "templates/"+layout, p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page called name inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	t, err := t.Clone()
	if err != nil {
		return err
	}
	t.Funcs(funcs(c))
	return t.ExecuteTemplate(w, layout, data)
}

func funcs(c echo.Context) template.FuncMap {
	return template.FuncMap{
		"csrfField": func() template.HTML {
			if c == nil {
				return ""
			}
			return csrf.TemplateField(c.Request())
		},
		"markdown":          Markdown,
		"won":               Won,
		"phone":             phone.Format,
		"date":              Date,
		"hhmm":              HHMM,
		"reservationStatus": ReservationStatus,
		"sessionStatus":     SessionStatus,
	}
}

// Markdown renders src as HTML; on failure the escaped source is returned.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// Won formats an amount in KRW with thousands separators: 60000 → "60,000원".
func Won(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	out := b.String() + "원"
	if neg {
		out = "-" + out
	}
	return out
}

var weekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// Date renders YYYY-MM-DD as "2026년 12월 15일 (화)".  Unparseable input is
// returned unchanged.
func Date(s string) string {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d년 %d월 %d일 (%s)", d.Year(), int(d.Month()), d.Day(), weekdays[d.Weekday()])
}

// HHMM trims seconds from HH:MM:SS.
func HHMM(s string) string {
	if len(s) == len("15:04:05") && s[5] == ':' {
		return s[:5]
	}
	return s
}

// ReservationStatus returns the Korean label of a reservation status.
func ReservationStatus(s string) string {
	switch s {
	case model.ReservationPending:
		return "결제 대기"
	case model.ReservationReserved:
		return "예약 완료"
	case model.ReservationConfirmed:
		return "예약 확정"
	case model.ReservationCancelled:
		return "취소됨"
	}
	return s
}

// SessionStatus returns the Korean label of a session status.
func SessionStatus(s string) string {
	switch s {
	case model.SessionRecruiting:
		return "모집중"
	case model.SessionFull:
		return "마감"
	case model.SessionClosed:
		return "종료"
	}
	return s
}
