package fitbit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultAPIBase  = "https://api.fitbit.com"
	DefaultAuthBase = "https://www.fitbit.com"
	DefaultAddr     = ":3000"
)

// Client reads body weight logs from the Fitbit Web API.
type Client struct {
	ClientID     string
	ClientSecret string
	// TokenFile stores the OAuth token between runs.
	TokenFile string
	APIBase   string
	AuthBase  string
	// Addr is where the one-shot authorization server listens.
	Addr string

	HTTPClient *http.Client
	Log        zerolog.Logger
}

// Weight is a single body weight log.
type Weight struct {
	BMI    float64 `json:"bmi"`
	Date   string  `json:"date"`
	Fat    float64 `json:"fat"`
	LogID  uint64  `json:"logId"`
	Source string  `json:"source"`
	Time   string  `json:"time"`
	Weight float64 `json:"weight"`
}

type weightResponse struct {
	Weights []Weight `json:"weight"`
}

type Token struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
}

func NewClient(id, secret, tokenFile string) *Client {
	return &Client{
		ClientID:     id,
		ClientSecret: secret,
		TokenFile:    tokenFile,
		APIBase:      DefaultAPIBase,
		AuthBase:     DefaultAuthBase,
		Addr:         DefaultAddr,
		HTTPClient:   http.DefaultClient,
		Log:          zerolog.Nop(),
	}
}

// Weights returns the weight logs recorded on the day of dt.
func (c *Client) Weights(ctx context.Context, dt time.Time) ([]Weight, error) {
	u := fmt.Sprintf("%s/1/user/-/body/log/weight/date/%s.json", c.APIBase, dt.Format("2006-01-02"))

	token, err := c.loadToken(ctx, false)
	if err != nil {
		return nil, err
	}

	res, err := c.get(ctx, u, token)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		c.Log.Info().Str("status", res.Status).Msg("refreshing fitbit token")

		token, err = c.loadToken(ctx, true)
		if err != nil {
			return nil, err
		}
		res, err = c.get(ctx, u, token)
		if err != nil {
			return nil, err
		}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, errors.Errorf("fitbit: %s: %s", res.Status, body)
	}

	var w weightResponse
	if err := json.NewDecoder(res.Body).Decode(&w); err != nil {
		return nil, errors.WithStack(err)
	}

	return w.Weights, nil
}

func (c *Client) get(ctx context.Context, u, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return res, nil
}

// requestToken exchanges an authorization code, or the refresh token when token
// already has one.
func (c *Client) requestToken(ctx context.Context, token *Token, code string) error {
	data := url.Values{}
	if token.RefreshToken == "" {
		data.Set("clientId", c.ClientID)
		data.Set("grant_type", "authorization_code")
		data.Set("code", code)
	} else {
		data.Set("grant_type", "refresh_token")
		data.Set("refresh_token", token.RefreshToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBase+"/oauth2/token", strings.NewReader(data.Encode()))
	if err != nil {
		return errors.WithStack(err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return errors.Errorf("fitbit token: %s: %s", res.Status, body)
	}

	return errors.WithStack(json.NewDecoder(res.Body).Decode(token))
}

func (c *Client) loadToken(ctx context.Context, refresh bool) (string, error) {
	b, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return c.authorize(ctx)
		}
		return "", errors.WithStack(err)
	}

	var token Token
	if err := json.Unmarshal(b, &token); err != nil {
		return "", errors.Wrapf(err, "read %s", c.TokenFile)
	}

	if refresh {
		if err := c.requestToken(ctx, &token, ""); err != nil {
			c.Log.Warn().Err(err).Msg("token refresh failed")
			return c.authorize(ctx)
		}
		if err := c.saveToken(&token); err != nil {
			return "", err
		}
	}

	return token.AccessToken, nil
}

func (c *Client) saveToken(token *Token) error {
	b, err := json.Marshal(token)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(c.TokenFile, b, 0o600))
}

// authorize runs a local server that redirects to the Fitbit consent page and
// stores the token received on its callback.
func (c *Client) authorize(ctx context.Context) (string, error) {
	mux := http.NewServeMux()
	srv := &http.Server{Addr: c.Addr, Handler: mux}

	var token Token
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		q := url.Values{}
		q.Set("response_type", "code")
		q.Set("client_id", c.ClientID)
		q.Set("scope", "weight")
		q.Set("expires_in", "604800")
		http.Redirect(w, r, c.AuthBase+"/oauth2/authorize?"+q.Encode(), http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "need code query", http.StatusBadRequest)
			return
		}

		if err := c.requestToken(ctx, &token, code); err != nil {
			c.Log.Error().Err(err).Msg("token exchange failed")
			http.Error(w, "token exchange failed", http.StatusBadGateway)
			return
		}
		if err := c.saveToken(&token); err != nil {
			c.Log.Error().Err(err).Msg("saving token failed")
			return
		}
		fmt.Fprintln(w, "authorized, you can close this window")

		go func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				c.Log.Error().Err(err).Msg("shutdown")
			}
		}()
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := srv.Shutdown(context.Background()); err != nil {
				c.Log.Error().Err(err).Msg("shutdown")
			}
		case <-done:
		}
	}()

	c.Log.Info().Msgf("please open http://localhost%s/ to authorize Fitbit access", c.Addr)

	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return "", errors.WithStack(err)
	}
	if token.AccessToken == "" && ctx.Err() != nil {
		return "", errors.Wrap(ctx.Err(), "fitbit authorization")
	}

	return token.AccessToken, nil
}
