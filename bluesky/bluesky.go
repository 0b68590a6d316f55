package bluesky

import (
	"context"
	"time"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	goskyutil "github.com/bluesky-social/indigo/cmd/gosky/util"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const postCollection = "app.bsky.feed.post"

// Client posts to a Bluesky account with handle and app password.
type Client struct {
	Host     string
	Handle   string
	Password string
	Log      zerolog.Logger
}

func NewClient(host, handle, pass string) *Client {
	return &Client{Host: host, Handle: handle, Password: pass, Log: zerolog.Nop()}
}

func (b *Client) session(ctx context.Context) (*xrpc.Client, error) {
	if b.Handle == "" || b.Password == "" {
		return nil, errors.New("bluesky: handle and password are required")
	}

	xrpcc := &xrpc.Client{
		Client: goskyutil.NewHttpClient(),
		Host:   b.Host,
		Auth:   &xrpc.AuthInfo{Handle: b.Handle},
	}
	auth, err := atproto.ServerCreateSession(ctx, xrpcc, &atproto.ServerCreateSession_Input{
		Identifier: xrpcc.Auth.Handle,
		Password:   b.Password,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	xrpcc.Auth.Did = auth.Did
	xrpcc.Auth.AccessJwt = auth.AccessJwt
	xrpcc.Auth.RefreshJwt = auth.RefreshJwt

	return xrpcc, nil
}

// Post publishes text as a feed post and returns its URI.
func (b *Client) Post(ctx context.Context, text string) (string, error) {
	xrpcc, err := b.session(ctx)
	if err != nil {
		return "", err
	}

	post := &bsky.FeedPost{
		LexiconTypeID: postCollection,
		Text:          text,
		CreatedAt:     time.Now().Local().Format(time.RFC3339),
	}

	resp, err := atproto.RepoCreateRecord(ctx, xrpcc, &atproto.RepoCreateRecord_Input{
		Collection: postCollection,
		Repo:       xrpcc.Auth.Did,
		Record:     &lexutil.LexiconTypeDecoder{Val: post},
	})
	if err != nil {
		return "", errors.WithStack(err)
	}

	b.Log.Info().Str("uri", resp.Uri).Msg("posted")

	return resp.Uri, nil
}
