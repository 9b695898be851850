package gqlclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transport sends a rendered document and returns the response data keyed by
// root field.
type Transport interface {
	Do(ctx context.Context, document string) (map[string]json.RawMessage, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, document string) (map[string]json.RawMessage, error)

func (f TransportFunc) Do(ctx context.Context, document string) (map[string]json.RawMessage, error) {
	return f(ctx, document)
}

// Client builds documents for generated operations and executes them.
type Client struct {
	transport Transport
	schema    *Schema
	policy    RequiredPolicy
	logger    logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithRequiredPolicy sets how required arguments are checked.
func WithRequiredPolicy(p RequiredPolicy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a Client sending documents through transport. schema
// tells enums and input objects apart from scalars when encoding arguments.
func NewClient(transport Transport, schema *Schema, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		schema:    schema,
		policy:    Truthy,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build validates selection and args and returns the filled document.
// Validation errors are reported in order: empty selection first, then the
// first missing required argument in declaration order.
func (c *Client) Build(op *Operation, selection Selection, args Args) (*Document, error) {
	doc := &Document{
		Kind:  op.Kind,
		Name:  op.Name,
		Field: op.Field,
	}

	if !op.Leaf {
		doc.Selection = selection.Fields(op.Fields)
		if len(doc.Selection) == 0 {
			return nil, ErrNoFieldsSelected
		}
	}

	for _, arg := range op.Arguments {
		if arg.Required && c.policy.Missing(args, arg.Name) {
			return nil, &RequiredArgumentError{Argument: arg.Name}
		}
	}

	for _, arg := range op.Arguments {
		value, ok := args[arg.Name]
		if !ok {
			continue
		}
		lit, err := c.schema.Literal(arg.Type, value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		doc.Arguments = append(doc.Arguments, DocumentArgument{Name: arg.Name, Value: lit})
	}

	return doc, nil
}

// Do builds the document, sends it once and returns the raw value of the
// operation's field. Transport errors are returned unchanged.
func (c *Client) Do(ctx context.Context, op *Operation, selection Selection, args Args) (json.RawMessage, error) {
	doc, err := c.Build(op, selection, args)
	if err != nil {
		return nil, err
	}

	document := doc.String()
	c.logger.WithFields(logrus.Fields{
		"operation": op.Name,
		"kind":      op.Kind,
	}).Debug("sending graphql operation")

	data, err := c.transport.Do(ctx, document)
	if err != nil {
		return nil, err
	}

	raw, ok := data[op.Field]
	if !ok {
		return nil, fmt.Errorf("%w: no %q in response data", ErrUnexpectedResponse, op.Field)
	}
	return raw, nil
}

// Execute runs op and decodes the field value into T.
func Execute[T any](ctx context.Context, c *Client, op *Operation, selection Selection, args Args) (T, error) {
	var result T

	raw, err := c.Do(ctx, op, selection, args)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("%w: failed to decode %s: %v", ErrUnexpectedResponse, op.Field, err)
	}
	return result, nil
}
