// Package embedding computes text embeddings for catalog search.
//
// # Overview
//
// The package exposes a single public entrypoint, Client, which hides the
// provider choice from callers:
//
//	client, err := embedding.NewClient(cfg)
//	vectors, err := client.Embed(ctx, []string{"red leather boots"})
//
// # Providers
//
//   - InferenceProvider: POSTs {"model", "input"} to <endpoint>/embeddings
//     with a bearer service token. Selected when Config.Endpoint is set.
//
//   - HashingEmbedder: deterministic feature hashing of lower-cased word
//     tokens, L2-normalised. Selected when no endpoint is configured.
//
// # Environment
//
//	EMBEDDING_ENDPOINT               base URL of the inference service
//	EMBEDDING_SERVICE_TOKEN          bearer token
//	EMBEDDING_MODEL                  model name
//	EMBEDDING_HTTP_TIMEOUT_SECONDS   request timeout (default 30)
//	EMBEDDING_DIMENSIONS             hashing vector size (default 256)
package embedding
