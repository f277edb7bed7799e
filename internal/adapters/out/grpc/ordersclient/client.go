// Package ordersclient notifies the Orders service about queue outcomes over
// gRPC. Messages are built from descriptors at runtime, so the client needs no
// generated code.
package ordersclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matching/internal/core/domain/model/kernel"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// DefaultTimeout bounds a single notification call.
const DefaultTimeout = 2 * time.Second

var ErrTargetIsRequired = errors.New("orders service address is required")

// Client implements ports.Notifier against the Orders service.
type Client struct {
	conn     grpc.ClientConnInterface
	closer   func() error
	timeout  time.Duration
	messages messages
}

// NewClient dials target lazily; the first call establishes the connection.
//
// Example:
//
//	client, err := ordersclient.NewClient("orders:50051", 2*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func NewClient(target string, timeout time.Duration) (*Client, error) {
	if target == "" {
		return nil, ErrTargetIsRequired
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("create orders client: %w", err)
	}

	client, err := NewClientWithConn(conn, timeout)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	client.closer = conn.Close

	return client, nil
}

// NewClientWithConn uses an existing connection, which the caller owns.
func NewClientWithConn(conn grpc.ClientConnInterface, timeout time.Duration) (*Client, error) {
	msgs, err := loadMessages()
	if err != nil {
		return nil, fmt.Errorf("load orders descriptors: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		conn:     conn,
		closer:   func() error { return nil },
		timeout:  timeout,
		messages: msgs,
	}, nil
}

// NotifyExpired tells the Orders service the requester's wait ran out.
func (c *Client) NotifyExpired(ctx context.Context, requesterID kernel.UUID) error {
	req := dynamicpb.NewMessage(c.messages.expirationRequest)
	setString(req, "user_uuid", requesterID.String())

	if err := c.invoke(ctx, methodNotifyExpirationTime, req,
		dynamicpb.NewMessage(c.messages.expirationResponse)); err != nil {
		return fmt.Errorf("notify expiration of %s: %w", requesterID, err)
	}
	return nil
}

// NotifyMatched tells the Orders service which courier was found.
func (c *Client) NotifyMatched(ctx context.Context, requesterID, courierID kernel.UUID, courierRating float64) error {
	req := dynamicpb.NewMessage(c.messages.courierRequest)
	setString(req, "courier_uuid", courierID.String())
	setString(req, "user_uuid", requesterID.String())
	setFloat(req, "courier_rating", float32(courierRating))

	if err := c.invoke(ctx, methodNotifyFoundedCourier, req,
		dynamicpb.NewMessage(c.messages.courierResponse)); err != nil {
		return fmt.Errorf("notify match of %s: %w", requesterID, err)
	}
	return nil
}

// Close releases the connection created by NewClient.
func (c *Client) Close() error {
	return c.closer()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp *dynamicpb.Message) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.conn.Invoke(ctx, method, req, resp)
}

func setString(msg *dynamicpb.Message, name, value string) {
	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	msg.Set(fd, protoreflect.ValueOfString(value))
}

func setFloat(msg *dynamicpb.Message, name string, value float32) {
	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	msg.Set(fd, protoreflect.ValueOfFloat32(value))
}
