package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/logger"
	"github.com/matchpoint-app/matchpoint/internal/matchmaker"
	"github.com/matchpoint-app/matchpoint/internal/matchmaker/gemini"
	"github.com/matchpoint-app/matchpoint/internal/secrets"
	"github.com/matchpoint-app/matchpoint/internal/server"
	"github.com/matchpoint-app/matchpoint/internal/store"
	"github.com/matchpoint-app/matchpoint/internal/voice"
)

const defaultListen = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the matchpoint application server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8080)")
	serveCmd.Flags().String("storage-backend", "", "storage backend: document, tabular or remote-spreadsheet")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("storage.backend", serveCmd.Flags().Lookup("storage-backend"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting matchpoint", zap.String("version", version))

	if config == nil {
		config = &Config{}
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	apiKey, err := resolveGeminiKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set the GEMINI_API_KEY environment variable or the 'ai.gemini.api-key' key in the configuration file"),
		)
	}

	var model string
	var maxLogLen int
	if config.AI != nil && config.AI.Gemini != nil {
		model = config.AI.Gemini.Model
		maxLogLen = config.AI.Gemini.MaxLogLength
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, model)
	if err != nil {
		logger.Fatal("creating gemini generator", zap.Error(err))
	}
	logger.Info("gemini generator ready", zap.String("model", generator.Model()))

	storageCfg := store.Config{}
	if config.Storage != nil {
		storageCfg = *config.Storage
	}
	if storageCfg.Backend == "" {
		storageCfg.Backend = viper.GetString("storage.backend")
	}
	if storageCfg.CredentialsFile == "" {
		storageCfg.CredentialsFile = viper.GetString("storage.credentials-file")
	}

	st, err := store.New(ctx, storageCfg, logger)
	if err != nil {
		logger.Fatal("configuring the record store", zap.Error(err))
	}
	logger.Info("record store ready", zap.String("backend", backendName(storageCfg)))

	opts := server.Options{}
	if config.Matching != nil {
		opts.CandidateLimit = config.Matching.CandidateLimit
		opts.CallTimeout = config.Matching.CallTimeout
	}

	srv := server.New(
		st,
		matchmaker.NewAnalyzer(generator, logger, maxLogLen),
		matchmaker.NewScorer(generator, logger, maxLogLen),
		voice.NewTranscriber(generator, logger),
		logger,
		opts,
	)

	listen := config.Listen
	if listen == "" {
		listen = viper.GetString("listen")
	}
	if listen == "" {
		listen = defaultListen
	}

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("listening", zap.String("addr", listen))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func resolveGeminiKey(config *Config) (string, error) {
	src := secrets.Source{Name: "gemini api key", Env: "GEMINI_API_KEY"}
	if config.AI != nil && config.AI.Gemini != nil {
		src.Value = config.AI.Gemini.APIKey
		src.File = config.AI.Gemini.APIKeyFile
	}
	return secrets.Load(src)
}

func backendName(cfg store.Config) string {
	if cfg.Backend == "" {
		return store.BackendDocument
	}
	return cfg.Backend
}
