package extract

import (
	"reflect"
	"testing"
)

func TestExtractPlainBody(t *testing.T) {
	msg := &RawMessage{
		Body: BodyPart{MIMEType: "text/plain", Data: []byte("20% off everything")},
	}

	content := Extract(msg)
	if content.PlainText != "20% off everything" {
		t.Errorf("PlainText = %q, want %q", content.PlainText, "20% off everything")
	}
	if content.HTMLText != "" {
		t.Errorf("HTMLText = %q, want empty", content.HTMLText)
	}
	if content.ImageRefs != nil {
		t.Errorf("ImageRefs = %v, want nil", content.ImageRefs)
	}
}

func TestExtractHTMLOnlyBody(t *testing.T) {
	msg := &RawMessage{
		Body: BodyPart{MIMEType: "text/html", Data: []byte("<p>Big sale</p>")},
	}

	content := Extract(msg)
	if content.PlainText != "Big sale" {
		t.Errorf("PlainText = %q, want %q", content.PlainText, "Big sale")
	}
	if content.HTMLText != "<p>Big sale</p>" {
		t.Errorf("HTMLText = %q", content.HTMLText)
	}
}

func TestExtractMultipartFirstPartWins(t *testing.T) {
	msg := &RawMessage{
		Body: BodyPart{
			MIMEType: "multipart/alternative",
			Parts: []BodyPart{
				{MIMEType: "text/plain", Data: []byte("first plain")},
				{MIMEType: "text/html", Data: []byte("<p>first html</p>")},
				{MIMEType: "text/plain", Data: []byte("second plain")},
				{MIMEType: "text/html", Data: []byte("<p>second html</p>")},
			},
		},
	}

	content := Extract(msg)
	if content.PlainText != "first plain" {
		t.Errorf("PlainText = %q, want %q", content.PlainText, "first plain")
	}
	if content.HTMLText != "<p>first html</p>" {
		t.Errorf("HTMLText = %q, want %q", content.HTMLText, "<p>first html</p>")
	}
}

func TestExtractMultipartHTMLFallback(t *testing.T) {
	msg := &RawMessage{
		Body: BodyPart{
			MIMEType: "multipart/alternative",
			Parts: []BodyPart{
				{MIMEType: "text/html", Data: []byte("<p>Hello&nbsp;World</p>")},
			},
		},
	}

	content := Extract(msg)
	if content.PlainText != "Hello World" {
		t.Errorf("PlainText = %q, want %q", content.PlainText, "Hello World")
	}
	if content.HTMLText != "<p>Hello&nbsp;World</p>" {
		t.Errorf("HTMLText = %q, want the part preserved verbatim", content.HTMLText)
	}
}

func TestExtractIgnoresNestedParts(t *testing.T) {
	msg := &RawMessage{
		Body: BodyPart{
			MIMEType: "multipart/mixed",
			Parts: []BodyPart{
				{
					MIMEType: "multipart/alternative",
					Parts: []BodyPart{
						{MIMEType: "text/plain", Data: []byte("nested plain")},
					},
				},
			},
		},
	}

	content := Extract(msg)
	if content.PlainText != "" {
		t.Errorf("PlainText = %q, want empty for depth-two part", content.PlainText)
	}
}

func TestExtractUnknownBodyType(t *testing.T) {
	msg := &RawMessage{
		Body: BodyPart{MIMEType: "application/pdf", Data: []byte("%PDF")},
	}

	content := Extract(msg)
	if content.PlainText != "" || content.HTMLText != "" || content.ImageRefs != nil {
		t.Errorf("unexpected content for unknown body type: %+v", content)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "block elements become line breaks",
			in:   "<div>Save big</div><p>Use code SAVE20</p>",
			want: "Save big\nUse code SAVE20",
		},
		{
			name: "script and style dropped",
			in:   "<style>p{color:red}</style><p>Deal</p><script>alert(1)</script>",
			want: "Deal",
		},
		{
			name: "inline elements keep flow",
			in:   "<p>Get <strong>50%</strong> off</p>",
			want: "Get 50% off",
		},
		{
			name: "nbsp collapses to plain space",
			in:   "<p>Hello&nbsp;&nbsp;World</p>",
			want: "Hello World",
		},
		{
			name: "whitespace runs collapse",
			in:   "<div>one\t\t two</div>\n\n<div>three</div>",
			want: "one two\nthree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in); got != tt.want {
				t.Errorf("HTMLToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageRefs(t *testing.T) {
	htmlText := `<div>
		<img src="https://cdn.example.com/banner.png">
		<img src="">
		<img alt="no src">
		<img src="https://cdn.example.com/banner.png">
		<img src="https://cdn.example.com/footer.jpg">
	</div>`

	want := []string{
		"https://cdn.example.com/banner.png",
		"https://cdn.example.com/banner.png",
		"https://cdn.example.com/footer.jpg",
	}
	got := ImageRefs(htmlText)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ImageRefs = %v, want %v", got, want)
	}
}
