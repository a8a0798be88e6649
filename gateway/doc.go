// Package gateway defines the boundary between a reasoning loop and the
// language model that drives it.
//
// The reasoning loop depends on the Gateway interface alone: an ordered
// conversation goes in, the model's next completion text comes out. Model
// backends, whether remote APIs or local inference engines, stay behind this
// boundary, and so does every retry. The loop's state machine never retries;
// it sees a single final outcome per completion.
//
// # Architecture
//
//   - Gateway: the single-method interface the reasoning loop calls.
//   - Typed errors: UnavailableError and RateLimitError are retryable;
//     AuthenticationError and InvalidRequestError are not. IsRetryable
//     classifies any error from this package.
//   - Retry: generic bounded retry with exponential backoff and jitter,
//     honoring RateLimitError.RetryAfter.
//   - GollmGateway: the production implementation over gollm
//     (github.com/teilomillet/gollm), covering openai, anthropic, ollama,
//     and the other providers gollm supports.
//   - Model catalog: known model identifiers with context windows and
//     per-provider defaults.
//
// # Quick Start
//
//	gw, err := gateway.NewGollmGateway("openai",
//	    gateway.WithModel("gpt-5.2-mini"),
//	    gateway.WithMaxTokens(1024),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := gateway.Retry(ctx, gateway.DefaultRetryPolicy(),
//	    func(ctx context.Context) (string, error) {
//	        return gw.Complete(ctx, []gateway.Message{
//	            gateway.SystemMessage("You are terse."),
//	            gateway.UserMessage("Name one prime number."),
//	        })
//	    })
//
// A local engine needs nothing but a different provider name:
//
//	gw, err := gateway.NewGollmGateway("ollama", gateway.WithModel("llama3.3"))
//
// Test doubles implement Gateway directly, or use GatewayFunc:
//
//	fake := gateway.GatewayFunc(func(ctx context.Context, _ []gateway.Message) (string, error) {
//	    return "Thought: done\nFinal Answer: 42", nil
//	})
package gateway
