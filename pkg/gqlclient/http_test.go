package gqlclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverSchema = `
schema {
	query: Query
	mutation: Mutation
}

enum ProductStatus {
	draft
	stable
}

input ProductInput {
	name: String!
	status: ProductStatus!
	price: Float
	tags: [String!]
}

type Product {
	id: ID!
	name: String!
	status: ProductStatus!
}

type User {
	id: ID!
	email: String!
	name: String
}

type Token {
	token: String!
	expiresIn: Int!
}

type Query {
	user(id: ID!): User
	version: String!
}

type Mutation {
	login(email: String!, password: String!): Token!
	createProduct(data: ProductInput!): Product!
}
`

type rootResolver struct{}

func (r *rootResolver) User(args struct{ ID graphql.ID }) *userResolver {
	if args.ID != "42" {
		return nil
	}
	name := "Ada"
	return &userResolver{id: args.ID, email: "ada@example.com", name: &name}
}

func (r *rootResolver) Version() string {
	return "1.0.0"
}

func (r *rootResolver) Login(args struct {
	Email    string
	Password string
}) *tokenResolver {
	return &tokenResolver{token: "token-for-" + args.Email}
}

func (r *rootResolver) CreateProduct(args struct {
	Data struct {
		Name   string
		Status string
		Price  *float64
		Tags   *[]string
	}
}) *productResolver {
	return &productResolver{name: args.Data.Name, status: args.Data.Status}
}

type userResolver struct {
	id    graphql.ID
	email string
	name  *string
}

func (u *userResolver) ID() graphql.ID { return u.id }
func (u *userResolver) Email() string { return u.email }
func (u *userResolver) Name() *string { return u.name }

type tokenResolver struct {
	token string
}

func (t *tokenResolver) Token() string { return t.token }
func (t *tokenResolver) ExpiresIn() int32 { return 3600 }

type productResolver struct {
	name   string
	status string
}

func (p *productResolver) ID() graphql.ID { return "p-1" }
func (p *productResolver) Name() string { return p.name }
func (p *productResolver) Status() string { return p.status }

func newTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	s := graphql.MustParseSchema(serverSchema, &rootResolver{})
	handler := &relay.Handler{Schema: s}

	var mu sync.Mutex
	var requestIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestIDs = append(requestIDs, r.Header.Get("X-Request-Id"))
		mu.Unlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	return server, &requestIDs
}

func TestHTTPTransportAgainstServer(t *testing.T) {
	server, requestIDs := newTestServer(t)
	c := NewClient(NewHTTPTransport(server.URL), shopSchema)
	ctx := context.Background()

	type user struct {
		ID    string  `json:"id"`
		Email string  `json:"email"`
		Name  *string `json:"name"`
	}
	u, err := Execute[*user](ctx, c, userOperation, Select("id", "name"), Args{"id": "42"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "42", u.ID)
	assert.Equal(t, "Ada", *u.Name)
	assert.Empty(t, u.Email, "unselected fields are not returned")

	missing, err := Execute[*user](ctx, c, userOperation, Select("id"), Args{"id": "7"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	type product struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	p, err := Execute[product](ctx, c, createProductOperation, Select("name", "status"), Args{
		"data": map[string]any{"name": "Widget", "status": "stable", "price": 2.5, "tags": []string{"new"}},
	})
	require.NoError(t, err)
	assert.Equal(t, product{Name: "Widget", Status: "stable"}, p)

	type token struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	tok, err := Execute[token](ctx, c, loginOperation, Select("token", "expiresIn"), Args{"email": "a@b.c", "password": "pw"})
	require.NoError(t, err)
	assert.Equal(t, token{Token: "token-for-a@b.c", ExpiresIn: 3600}, tok)

	version, err := Execute[string](ctx, c, versionOperation, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	require.Len(t, *requestIDs, 5)
	for _, id := range *requestIDs {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
}

func TestHTTPTransportGraphQLErrors(t *testing.T) {
	server, _ := newTestServer(t)
	transport := NewHTTPTransport(server.URL)

	_, err := transport.Do(context.Background(), "query Broken {\n  nope\n}")
	require.Error(t, err)

	var gqlErrs Errors
	require.True(t, errors.As(err, &gqlErrs), "got %T: %v", err, err)
	require.NotEmpty(t, gqlErrs)
	assert.Contains(t, gqlErrs[0].Message, "nope")
}

func TestHTTPTransportHeadersAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"version":"2"}}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL)
	_, err := transport.Do(context.Background(), "query Version {\n  version\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	transport.Header.Set("Authorization", "Bearer secret")
	data, err := transport.Do(context.Background(), "query Version {\n  version\n}")
	require.NoError(t, err)
	assert.JSONEq(t, `"2"`, string(data["version"]))
}
