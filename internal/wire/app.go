package wire

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/marketeer/internal/client"
	"github.com/mithrel/marketeer/internal/config"
	"github.com/mithrel/marketeer/internal/history"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     *viper.Viper
	Log     *log.Logger
	Client  *client.Client
	History history.Store
}

// BuildApp wires dependencies with the provided config. The logger writes
// to stderr only when verbose is set.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	var logOut io.Writer = io.Discard
	if v.GetBool("verbose") {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "marketeer ", log.LstdFlags)

	store, err := history.Open(ctx, config.HistoryDSN(v), v.GetInt("history.size"))
	if err != nil {
		return nil, err
	}
	c := client.New(v.GetString("server_url"),
		client.WithTimeout(config.Timeout(v)),
		client.WithLogger(logger),
	)
	return &App{
		Cfg:     v,
		Log:     logger,
		Client:  c,
		History: store,
	}, nil
}

// Close releases the history store.
func (a *App) Close() error {
	if a == nil || a.History == nil {
		return nil
	}
	return a.History.Close()
}
