package discord

import (
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// DefaultBaseURL is the versioned REST endpoint of the platform API.
const DefaultBaseURL = "https://discord.com/api/v10"

// RateLimitedError is returned (wrapped in serrors.ErrRateLimited) when the API
// answers with 429. RetryAfter tells how long to wait before trying again.
type RateLimitedError struct {
	RetryAfter time.Duration
	Global     bool
}

func (e *RateLimitedError) Error() string {
	return "rate limited, retry after " + e.RetryAfter.String()
}

// Options configures a REST Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL, mostly for tests.
	BaseURL string
	// Token is the bot token used to authenticate against the API.
	Token string
	// GuildID is the controlling community that membership questions refer to.
	GuildID string
}

// RESTClient implements Client over the platform's REST API. It is safe for
// concurrent use.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	guildID    string
}

// Ensure RESTClient conforms to the Client interface at compile time.
var _ Client = (*RESTClient)(nil)

// New constructs a RESTClient using the provided http.Client.
func New(httpClient *http.Client, opts Options) *RESTClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &RESTClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      opts.Token,
		guildID:    opts.GuildID,
	}
}

// FetchAccount fetches the public profile of an account.
func (c *RESTClient) FetchAccount(ctx context.Context, ID string) (*domain.Account, error) {
	b, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(ID), nil, nil)
	if err != nil {
		return nil, err
	}

	account, err := decodeAccount(jx.DecodeBytes(b))
	if err != nil {
		return nil, errors.Wrap(err, "decode user")
	}

	return account, nil
}

// IsMember reports whether the account is a member of the configured guild.
func (c *RESTClient) IsMember(ctx context.Context, ID string) (bool, error) {
	m, err := c.member(ctx, ID)
	if err != nil {
		return false, err
	}

	return m != nil, nil
}

// RolesOf returns the role ids the account holds in the configured guild.
func (c *RESTClient) RolesOf(ctx context.Context, ID string) ([]domain.RoleID, error) {
	m, err := c.member(ctx, ID)
	if err != nil || m == nil {
		return nil, err
	}

	return m.roles, nil
}

// RemoveMember kicks the account from the configured guild.
func (c *RESTClient) RemoveMember(ctx context.Context, ID string, reason string) error {
	header := http.Header{}
	if reason != "" {
		header.Set("X-Audit-Log-Reason", url.PathEscape(reason))
	}

	_, err := c.do(ctx, http.MethodDelete, c.memberPath(ID), nil, header)

	return err
}

// PostMessage posts content to a channel with mention parsing disabled.
func (c *RESTClient) PostMessage(ctx context.Context, channelID string, content string) error {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("content", func(e *jx.Encoder) { e.Str(content) })
		e.Field("allowed_mentions", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("parse", func(e *jx.Encoder) {
					e.ArrStart()
					e.ArrEnd()
				})
			})
		})
	})

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	_, err := c.do(ctx, http.MethodPost, "/channels/"+url.PathEscape(channelID)+"/messages", e.Bytes(), header)

	return err
}

type guildMember struct {
	roles []domain.RoleID
}

func (c *RESTClient) memberPath(ID string) string {
	return "/guilds/" + url.PathEscape(c.guildID) + "/members/" + url.PathEscape(ID)
}

// member returns nil without an error when the account is not in the guild.
func (c *RESTClient) member(ctx context.Context, ID string) (*guildMember, error) {
	b, err := c.do(ctx, http.MethodGet, c.memberPath(ID), nil, nil)
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	m := &guildMember{}
	if err := jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
		if key != "roles" {
			return d.Skip()
		}

		return d.Arr(func(d *jx.Decoder) error {
			role, err := d.Str()
			if err != nil {
				return err
			}
			m.roles = append(m.roles, domain.RoleID(role))

			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode member")
	}

	return m, nil
}

func (c *RESTClient) do(ctx context.Context,
	method string,
	path string,
	body []byte,
	header http.Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		rl := parseRateLimit(resp.Header, b)

		return nil, serrors.Wrap(serrors.ErrRateLimited, rl, "%s %s", method, path)
	case resp.StatusCode == http.StatusNotFound:
		return nil, serrors.With(serrors.ErrNotFound, "%s %s: %s", method, path, apiMessage(b))
	case resp.StatusCode == http.StatusForbidden:
		return nil, serrors.With(serrors.ErrForbidden, "%s %s: %s", method, path, apiMessage(b))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiMessage(b))
	}

	return b, nil
}

// parseRateLimit reads the retry delay from the reset headers, falling back to
// the retry_after field of the body.
func parseRateLimit(h http.Header, body []byte) *RateLimitedError {
	rl := &RateLimitedError{Global: h.Get("X-RateLimit-Global") == "true"}
	if s := h.Get("X-RateLimit-Reset-After"); s != "" {
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			rl.RetryAfter = time.Duration(secs * float64(time.Second))

			return rl
		}
	}

	_ = jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "retry_after" {
			return d.Skip()
		}
		secs, err := d.Float64()
		if err != nil {
			return err
		}
		rl.RetryAfter = time.Duration(secs * float64(time.Second))

		return nil
	})

	return rl
}

// apiMessage extracts the human readable message of an API error body.
func apiMessage(body []byte) string {
	msg := strings.TrimSpace(string(body))
	_ = jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "message" {
			return d.Skip()
		}
		v, err := d.Str()
		if err == nil {
			msg = v
		}

		return err
	})

	return msg
}

func decodeAccount(d *jx.Decoder) (*domain.Account, error) {
	var a domain.Account
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			a.ID, err = d.Str()
		case "username":
			a.Username, err = d.Str()
		case "discriminator":
			a.Discriminator, err = d.Str()
		case "avatar":
			if d.Next() == jx.Null {
				return d.Null()
			}
			a.Avatar, err = d.Str()
		case "bot":
			a.ServiceAccount, err = d.Bool()
		default:
			return d.Skip()
		}

		return err
	}); err != nil {
		return nil, err
	}

	return &a, nil
}
