package rpc

import (
	"context"
	"io"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/jsonrpc2"
)

type HandlerFunc func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request)

func (h HandlerFunc) Handle(ctx context.Context, c *jsonrpc2.Conn, r *jsonrpc2.Request) {
	h(ctx, c, r)
}

// CustomStream joins a reader and a writer, such as stdin and stdout, into
// one stream.
type CustomStream struct {
	io.ReadCloser
	io.WriteCloser
}

func (conn *CustomStream) Read(p []byte) (n int, err error) {
	return conn.ReadCloser.Read(p)
}

func (conn *CustomStream) Write(p []byte) (n int, err error) {
	return conn.WriteCloser.Write(p)
}

func (conn *CustomStream) Close() error {
	if err := conn.ReadCloser.Close(); err != nil {
		return err
	} else if err := conn.WriteCloser.Close(); err != nil {
		return err
	}
	return nil
}

// Serve accepts connections on l until ctx is done. Each connection gets
// its own handler from newHandler, and its requests are handled in order.
func Serve(ctx context.Context, l net.Listener, codec jsonrpc2.ObjectCodec, newHandler func() jsonrpc2.Handler, opts ...jsonrpc2.ConnOpt) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		go func() {
			cn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(conn, codec), newHandler(), opts...)
			defer cn.Close()

			select {
			case <-cn.DisconnectNotify():
			case <-ctx.Done():
			}
		}()
	}
}

// StartServer listens on the TCP address addr and serves it until ctx is
// done.
func StartServer(ctx context.Context, addr string, codec jsonrpc2.ObjectCodec, newHandler func() jsonrpc2.Handler, opts ...jsonrpc2.ConnOpt) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}

	return Serve(ctx, l, codec, newHandler, opts...)
}
