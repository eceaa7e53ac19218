package rpc

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"
)

// Client is the editor side of a connection, used to drive servers in
// tests.
type Client struct {
	*jsonrpc2.Conn
	onNotify func(req *jsonrpc2.Request)
}

// NewClient connects to the server at the other end of conn. onNotify, when
// not nil, receives the notifications the server sends.
func NewClient(ctx context.Context, conn io.ReadWriteCloser, codec jsonrpc2.ObjectCodec, onNotify func(req *jsonrpc2.Request)) *Client {
	client := &Client{onNotify: onNotify}
	client.Conn = jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(conn, codec), client)
	return client
}

func (c *Client) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if req.Notif && c.onNotify != nil {
		c.onNotify(req)
	}
}

func (c *Client) Call(method string, payload any, result any) error {
	return c.Conn.Call(context.Background(), method, payload, result)
}

func (c *Client) Notify(method string, payload any) error {
	return c.Conn.Notify(context.Background(), method, payload)
}
