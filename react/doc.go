// Package react implements a bounded reason-and-act loop that pairs a
// language model with a set of callable tools.
//
// Each run takes a goal string and iterates: ask the model for the next
// step, parse the step's thought and declared actions, dispatch the actions
// through the tool registry, and feed the observations back into a windowed
// conversation. A run terminates on an explicit final answer, an iteration
// cap, a repetition streak, a parse-retry budget, cancellation, or a
// gateway failure, and always hands back the full step trace.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Loop: The orchestrator. Drives runs against a gateway, enforces the
//     iteration, parse-retry, and repetition bounds, and records the trace.
//   - Registry: Registration and dispatch of tools. Shared read-only
//     across concurrent runs.
//   - Memory: Append-only conversation history with a sliding window view
//     that always keeps the system message.
//   - Trace: The append-only step record a run returns regardless of how
//     it terminated.
//   - EventEmitter: Lifecycle event stream for host application
//     integration.
//
// # Quick Start
//
//	gw, err := gateway.NewGollmGateway("openai", gateway.WithModel("gpt-5.2-mini"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry := react.NewRegistry()
//	if err := react.RegisterReferenceTools(registry); err != nil {
//	    log.Fatal(err)
//	}
//
//	loop, err := react.New(gw, registry, react.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := loop.Run(ctx, "What is the capital of France?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Answer)
package react
