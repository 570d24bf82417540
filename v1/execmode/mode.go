package execmode

import (
	"os"
	"strings"
	"sync"
)

// Mode is the lifecycle strategy the process runs under.
type Mode string

const (
	// Traditional is a long-lived server process that connects and initializes
	// before accepting traffic.
	Traditional Mode = "traditional"

	// Serverless is a per-request invocation model. Nothing is done at process
	// start; the first request connects.
	Serverless Mode = "serverless"
)

// Environment signals consulted by Detect.
const (
	EnvExecutionMode      = "EXECUTION_MODE"
	EnvVercel             = "VERCEL"
	EnvLambdaFunctionName = "AWS_LAMBDA_FUNCTION_NAME"
	EnvLambdaRuntimeAPI   = "AWS_LAMBDA_RUNTIME_API"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

func (m Mode) String() string {
	return string(m)
}

// IsServerless reports whether m is the Serverless mode.
func (m Mode) IsServerless() bool {
	return m == Serverless
}

// Detect resolves the execution mode from environment signals.
//
// Precedence:
//  1. EXECUTION_MODE set to serverless/lambda or traditional/server
//  2. VERCEL=1
//  3. AWS_LAMBDA_FUNCTION_NAME or AWS_LAMBDA_RUNTIME_API present
//  4. Traditional
//
// Detect never fails; unrecognized values fall through to the next signal.
func Detect(lookup LookupFunc) Mode {
	if lookup == nil {
		return Traditional
	}

	if v, ok := lookup(EnvExecutionMode); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "serverless", "lambda":
			return Serverless
		case "traditional", "server":
			return Traditional
		}
	}

	if v, ok := lookup(EnvVercel); ok && strings.TrimSpace(v) == "1" {
		return Serverless
	}

	for _, key := range []string{EnvLambdaFunctionName, EnvLambdaRuntimeAPI} {
		if v, ok := lookup(key); ok && v != "" {
			return Serverless
		}
	}

	return Traditional
}

var processMode = sync.OnceValue(func() Mode {
	return Detect(os.LookupEnv)
})

// Current returns the mode of this process. The environment is read on the
// first call only.
func Current() Mode {
	return processMode()
}
