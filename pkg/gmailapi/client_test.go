package gmailapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"deal-detector/pkg/logger"
)

func TestListPromotionalReadsTokenBeforeListing(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/profile"):
			calls = append(calls, "profile")
			fmt.Fprint(w, `{"emailAddress": "user@example.com", "historyId": "4321"}`)
		case strings.HasSuffix(r.URL.Path, "/messages"):
			calls = append(calls, "list")
			fmt.Fprint(w, `{"messages": [{"id": "m1"}, {"id": "m2"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc, err := gmail.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	c := &Client{svc: svc, log: logger.Get()}

	ids, token, err := c.ListPromotional(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("ListPromotional returned error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"m1", "m2"}) {
		t.Errorf("ids = %v", ids)
	}
	if token != 4321 {
		t.Errorf("token = %d, want 4321", token)
	}

	// The token must be pinned before paging starts: a message arriving
	// mid-scan then lands above the stored cursor and the next diff
	// covers it. Token-after-listing would lose it silently.
	if len(calls) < 2 || calls[0] != "profile" {
		t.Errorf("call order = %v, want profile before listing", calls)
	}
}

func TestDecodeBody(t *testing.T) {
	plain := []byte("Save 20% today?>")

	for _, enc := range []string{
		base64.RawURLEncoding.EncodeToString(plain),
		base64.URLEncoding.EncodeToString(plain),
	} {
		got, err := decodeBody(enc)
		if err != nil {
			t.Fatalf("decodeBody(%q) returned error: %v", enc, err)
		}
		if string(got) != string(plain) {
			t.Errorf("decodeBody(%q) = %q, want %q", enc, got, plain)
		}
	}
}

func TestConvertPart(t *testing.T) {
	encode := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encode("plain body")},
			},
			{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: encode("<p>html body</p>")},
			},
			{
				MimeType: "image/png",
				Body:     &gmail.MessagePartBody{Data: "!!!not base64!!!"},
			},
		},
	}

	part := convertPart(payload)
	if part.MIMEType != "multipart/alternative" {
		t.Errorf("MIMEType = %q", part.MIMEType)
	}
	if len(part.Parts) != 3 {
		t.Fatalf("len(Parts) = %d, want 3", len(part.Parts))
	}
	if string(part.Parts[0].Data) != "plain body" {
		t.Errorf("plain part = %q", part.Parts[0].Data)
	}
	if string(part.Parts[1].Data) != "<p>html body</p>" {
		t.Errorf("html part = %q", part.Parts[1].Data)
	}
	// Undecodable data keeps the part but drops the content.
	if part.Parts[2].MIMEType != "image/png" || part.Parts[2].Data != nil {
		t.Errorf("bad part = %+v", part.Parts[2])
	}
}
