package commands

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/app"
	"github.com/Aleph-Alpha/storefront/v1/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API (default command)",
	Long: `Start the API.

Traditional mode runs the startup pass (connect, seed, index sync) and then
listens on HOST:PORT (default 0.0.0.0:8000). Inside the AWS Lambda runtime
the router is handed to the Lambda event loop instead of a listener.

Examples:
  # Local server
  MONGO_URI=mongodb://localhost:27017/storefront storefront serve

  # Skip seeding on start
  SKIP_SEED_ON_START=true storefront serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var handler server.LambdaHandler
	application := app.New(cfg, fx.Populate(&handler))
	if err := application.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout(cfg))
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	if cfg.Server.LambdaRuntime {
		// lambda.Start never returns.
		lambda.Start(handler)
		return nil
	}

	sig := <-application.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout)
	defer stopCancel()
	if err := application.Stop(stopCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("stopped with exit code %d", sig.ExitCode)
	}
	return nil
}
