package htmlrender

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// DefaultEncoding is the charset used when none is requested.
	DefaultEncoding = "utf-8"

	// HeaderContentType is the only header a Response carries.
	HeaderContentType = "content-type"

	mimeTextPlain = "text/plain"
)

// Header is a single response header.
type Header struct {
	Name  string
	Value string
}

// Response is a rendered page: status, headers and a lazily encoded body.
type Response struct {
	Status  int
	Headers []Header
	Body    *Body
}

// ContentType returns the value of the content-type header.
func (r *Response) ContentType() string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, HeaderContentType) {
			return h.Value
		}
	}
	return ""
}

// Bytes returns the encoded body.
func (r *Response) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := r.Body.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Send writes the response through fiber.
func (r *Response) Send(c *fiber.Ctx) error {
	body, err := r.Bytes()
	if err != nil {
		return err
	}

	c.Status(r.Status)
	for _, h := range r.Headers {
		c.Set(h.Name, h.Value)
	}
	return c.Send(body)
}

// Write writes the response through net/http. The body is encoded before the
// status line goes out, so an encoding error leaves w untouched.
func (r *Response) Write(w http.ResponseWriter) error {
	body, err := r.Bytes()
	if err != nil {
		return err
	}
	return r.writeEncoded(w, body)
}

func (r *Response) writeEncoded(w http.ResponseWriter, body []byte) error {
	for _, h := range r.Headers {
		w.Header().Set(h.Name, h.Value)
	}
	w.WriteHeader(r.Status)
	_, err := w.Write(body)
	return err
}

// Body is rendered text that is only encoded when written.
type Body struct {
	text string
	enc  encoding.Encoding
	html bool
}

// newBody builds a body for text. HTML bodies write runes the charset cannot
// represent as numeric character references; other bodies write the charset's
// replacement byte, so encoding them never fails.
func newBody(text string, enc encoding.Encoding, html bool) *Body {
	return &Body{text: text, enc: enc, html: html}
}

// String returns the unencoded text.
func (b *Body) String() string {
	if b == nil {
		return ""
	}
	return b.text
}

// WriteTo encodes the text into w using the response charset.
func (b *Body) WriteTo(w io.Writer) (int64, error) {
	if b == nil || b.text == "" {
		return 0, nil
	}

	cw := &countingWriter{w: w}
	if b.enc == nil {
		_, err := io.WriteString(cw, b.text)
		return cw.count, err
	}

	encoder := b.enc.NewEncoder()
	if b.html {
		encoder = encoding.HTMLEscapeUnsupported(encoder)
	} else {
		encoder = encoding.ReplaceUnsupported(encoder)
	}
	ew := encoder.Writer(cw)
	if _, err := io.WriteString(ew, b.text); err != nil {
		return cw.count, err
	}
	if c, ok := ew.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return cw.count, err
		}
	}
	return cw.count, nil
}

// lookupEncoding resolves a charset name, defaulting to DefaultEncoding.
func lookupEncoding(name string) (string, encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", nil, ErrUnknownEncoding{Name: name}
	}
	return name, enc, nil
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}
