package gmailapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/jhillyerd/enmime"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"deal-detector/domain/extract"
	"deal-detector/domain/sync"
	"deal-detector/pkg/logger"
)

// PromotionalLabel is Gmail's category label for marketing mail. The
// sync engine filters history diffs down to this label.
const PromotionalLabel = "CATEGORY_PROMOTIONS"

const listPageSize = 500

// Client implements sync.MailSource on top of the Gmail REST API. The
// mailbox address is passed as the API user id, so one client can serve
// every mailbox the token source is authorized for.
type Client struct {
	svc *gmail.Service
	log logger.Logger
}

// NewClient builds a Gmail client from an OAuth2 token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{
		svc: svc,
		log: logger.Get().WithComponent("gmail"),
	}, nil
}

// ListPromotional pages through the mailbox's promotional listing and
// returns the message ids together with the mailbox's history token.
//
// The token is read before the listing starts. A message arriving while
// the scan is paging may be missed by the listing, but its history id is
// then above the returned token, so the next diff picks it up; reading
// the token afterwards would lose such a message for good. The worst
// case this way is a duplicate, which the store's dedup absorbs.
func (c *Client) ListPromotional(ctx context.Context, mailbox string) ([]string, uint64, error) {
	profile, err := c.svc.Users.GetProfile(mailbox).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read mailbox profile: %w", err)
	}

	var ids []string
	pageToken := ""
	for {
		call := c.svc.Users.Messages.List(mailbox).
			LabelIds(PromotionalLabel).
			MaxResults(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list promotional messages: %w", err)
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return ids, profile.HistoryId, nil
}

// GetMessage fetches one message with its full MIME tree. Messages the
// API cannot return in structured form fall back to raw RFC 2822
// parsing.
func (c *Client) GetMessage(ctx context.Context, mailbox, id string) (*extract.RawMessage, error) {
	msg, err := c.svc.Users.Messages.Get(mailbox, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}

	if msg.Payload == nil {
		return c.getMessageRaw(ctx, mailbox, msg)
	}

	raw := &extract.RawMessage{
		ID:           msg.Id,
		Labels:       msg.LabelIds,
		InternalDate: msg.InternalDate,
		Body:         convertPart(msg.Payload),
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			raw.Sender = h.Value
		case "Subject":
			raw.Subject = h.Value
		}
	}
	return raw, nil
}

// getMessageRaw re-fetches the message in raw form and parses the MIME
// envelope locally.
func (c *Client) getMessageRaw(ctx context.Context, mailbox string, meta *gmail.Message) (*extract.RawMessage, error) {
	c.log.Debug("Structured payload missing, falling back to raw fetch",
		logger.MessageID(meta.Id),
	)

	msg, err := c.svc.Users.Messages.Get(mailbox, meta.Id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw message %s: %w", meta.Id, err)
	}

	data, err := decodeBody(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw message %s: %w", meta.Id, err)
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse raw message %s: %w", meta.Id, err)
	}

	body := extract.BodyPart{MIMEType: "multipart/alternative"}
	if env.Text != "" {
		body.Parts = append(body.Parts, extract.BodyPart{
			MIMEType: "text/plain",
			Data:     []byte(env.Text),
		})
	}
	if env.HTML != "" {
		body.Parts = append(body.Parts, extract.BodyPart{
			MIMEType: "text/html",
			Data:     []byte(env.HTML),
		})
	}

	return &extract.RawMessage{
		ID:           msg.Id,
		Sender:       env.GetHeader("From"),
		Subject:      env.GetHeader("Subject"),
		Labels:       msg.LabelIds,
		InternalDate: msg.InternalDate,
		Body:         body,
	}, nil
}

// HistoryDiff pages through the history feed between two tokens and
// returns the "message added" records in feed order.
func (c *Client) HistoryDiff(ctx context.Context, mailbox string, fromToken, toToken uint64) ([]sync.HistoryEntry, error) {
	var entries []sync.HistoryEntry
	pageToken := ""
	for {
		call := c.svc.Users.History.List(mailbox).
			StartHistoryId(fromToken).
			HistoryTypes("messageAdded").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			var apiErr *googleapi.Error
			// 404 on history listing means the start token fell out of the
			// retained window.
			if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
				return nil, sync.ErrHistoryExpired
			}
			return nil, fmt.Errorf("failed to list history: %w", err)
		}

		for _, h := range resp.History {
			if h.Id > toToken {
				continue
			}
			for _, added := range h.MessagesAdded {
				if added.Message == nil {
					continue
				}
				entries = append(entries, sync.HistoryEntry{
					MessageID: added.Message.Id,
					Labels:    added.Message.LabelIds,
				})
			}
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return entries, nil
}

// convertPart maps the API's MIME tree onto the pipeline's body model,
// decoding part data as it goes. Parts with undecodable data keep their
// MIME type but carry no content.
func convertPart(p *gmail.MessagePart) extract.BodyPart {
	part := extract.BodyPart{MIMEType: p.MimeType}
	if p.Body != nil && p.Body.Data != "" {
		if data, err := decodeBody(p.Body.Data); err == nil {
			part.Data = data
		}
	}
	for _, child := range p.Parts {
		part.Parts = append(part.Parts, convertPart(child))
	}
	return part
}

// decodeBody handles the API's URL-safe base64, padded or not.
func decodeBody(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
