package server

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// LambdaHandler is the function handed to lambda.Start. It serves API Gateway
// HTTP API (payload v2) events.
type LambdaHandler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewLambdaHandler adapts h to API Gateway v2 events.
func NewLambdaHandler(h http.Handler) LambdaHandler {
	adapter := httpadapter.NewV2(h)
	return adapter.ProxyWithContext
}
