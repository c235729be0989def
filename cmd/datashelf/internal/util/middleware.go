package util

import (
	"github.com/urfave/cli/v2"

	"github.com/shelftools/datashelf/pkg/logging"
)

// ChainCmdMiddleware returns a cli ActionFunc that is wrapped by the given middleware.
// Middleware is executed in order. E.G. `middleware[0](middleware[1](cmd))`
func ChainCmdMiddleware(cmd cli.ActionFunc, middlewares ...func(cli.ActionFunc) cli.ActionFunc) cli.ActionFunc {
	if len(middlewares) < 1 {
		return cmd
	}
	wrapped := cmd
	// loop in reverse to preserve middleware order
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

// CmdMiddlewareLogging configures the logging system before executing the CLI command
func CmdMiddlewareLogging(f cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger := logging.NewLogger(c.App.Writer, c.App.ErrWriter, c.Bool("quiet"), c.Bool("verbose"))
		c.Context = logger.WithContext(c.Context)
		return f(c)
	}
}
