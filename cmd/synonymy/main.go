// Copyright 2025 The Synonymy Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the overused-word checker server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

Synonymy finds the words a text leans on too much. Each word's share of the
text is compared with the share a Zipf curve over a reference frequency
corpus predicts for it, and the worst offenders are returned with synonyms
from a remote synonym service. Synonyms are cached for the life of the
session so a word is only ever looked up once.

# Usage

Start the IPC server with default settings:

	synonymy

Use a custom corpus and enable debug mode:

	synonymy -data /path/to/chunks -d

Check a file from the command line:

	synonymy -c -text essay.txt

Build binary chunks from a ranked word list (one word per line, most frequent first):

	synonymy -build count_1w.txt -data data/ -chunk 10000

# Configuration

Runtime configuration lives in a TOML file created with defaults on first
run:

	[analysis]
	min_occurrences = 3
	min_multiplier = 5
	max_results = 10

	[trigger]
	debounce_ms = 1000
	min_words = 200

	[synonyms]
	endpoint = "http://localhost:5000"

SYNONYMY_API_URL and SYNONYMY_API_KEY (also read from a .env file) override
the synonym endpoint and set its bearer key.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. See package
server for the message shapes.

	{"id": "r1", "action": "check", "text": "..."}

# Command Line Flags

	-data string
	    Corpus: directory of dict_*.bin chunks or a .txt word list (default "data/")
	-config string
	    Config file path (default in the user config dir)
	-store string
	    Text store directory (default in the user config dir)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-text string
	    File to check in CLI mode, "-" for stdin
	-build string
	    Word list to convert into chunks under -data
	-words int
	    Maximum corpus words to load (0 for all)
	-chunk int
	    Words per chunk when building
	-metrics string
	    Address for the Prometheus /metrics endpoint, e.g. ":9090"
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bastiangx/synonymy/internal/cli"
	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/internal/utils"
	"github.com/bastiangx/synonymy/pkg/analysis"
	"github.com/bastiangx/synonymy/pkg/config"
	"github.com/bastiangx/synonymy/pkg/corpus"
	"github.com/bastiangx/synonymy/pkg/server"
	"github.com/bastiangx/synonymy/pkg/session"
	"github.com/bastiangx/synonymy/pkg/store"
	"github.com/bastiangx/synonymy/pkg/synonyms"
)

const (
	Version = "0.3.0-beta"
	AppName = "synonymy"
	gh      = "https://github.com/bastiangx/synonymy"

	configFile = "synonymy.toml"
)

// main only wires packages together; none of the checking logic lives here.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "data/", "Corpus: directory of chunk files or a .txt word list")
	configPath := flag.String("config", "", "Config file path")
	storePath := flag.String("store", "", "Directory for the saved text")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	textPath := flag.String("text", "", "File to check in CLI mode (\"-\" for stdin)")
	buildFrom := flag.String("build", "", "Build chunk files under -data from this word list")
	wordLimit := flag.Int("words", defaultConfig.Corpus.MaxWords, "Maximum number of corpus words to load (use 0 for all words)")
	chunkSize := flag.Int("chunk", defaultConfig.Corpus.ChunkSize, "Number of words per chunk when building")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *buildFrom != "" {
		if err := buildChunks(*buildFrom, *dataPath, *chunkSize); err != nil {
			log.Fatalf("Failed to build chunks: %v", err)
		}
		return
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *configPath == "" {
		*configPath, err = pathResolver.GetConfigPath(configFile)
		if err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(*configPath))

	appConfig, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *wordLimit != defaultConfig.Corpus.MaxWords {
		appConfig.Corpus.MaxWords = *wordLimit
	}

	resolvedDataPath, err := pathResolver.GetDataDir(*dataPath)
	if err != nil {
		log.Fatalf("Failed to resolve data dir:(%v)", err)
	}
	log.Debugf("Loading corpus: path=[%s], maxWords=[%d]", resolvedDataPath, appConfig.Corpus.MaxWords)

	freq, err := corpus.NewLoader(resolvedDataPath, appConfig.Corpus.MaxWords).Load()
	if err != nil {
		if errors.Is(err, corpus.ErrNoCorpus) || errors.Is(err, os.ErrNotExist) {
			log.Print("Did you forget to build the corpus? Try: synonymy -build words.txt")
		}
		log.Fatalf("Failed to load corpus: %v", err)
	}
	log.Debugf("Corpus ready: %s words", utils.FormatWithCommas(freq.Len()))

	// the corpus is also the recognized-word list, so no separate lexicon
	analyzer := analysis.NewAnalyzer(freq, nil, analysis.Options{
		MinOccurrences: appConfig.Analysis.MinOccurrences,
		MinMultiplier:  appConfig.Analysis.MinMultiplier,
		MaxResults:     appConfig.Analysis.MaxResults,
		MinWordLength:  appConfig.Analysis.MinWordLength,
		ZipfConstant:   appConfig.Analysis.ZipfConstant,
	})

	client := synonyms.NewClient(appConfig.Synonyms.Endpoint, synonyms.ClientOptions{
		APIKey:            appConfig.Synonyms.APIKey,
		Timeout:           appConfig.Synonyms.Timeout(),
		RequestsPerSecond: appConfig.Synonyms.RequestsPerSecond,
		Burst:             appConfig.Synonyms.Burst,
	})
	coordinator := synonyms.NewCoordinator(client)

	opts := session.Options{
		Debounce: appConfig.Trigger.Debounce(),
		MinWords: appConfig.Trigger.MinWords,
	}

	storeDir := *storePath
	if storeDir == "" {
		storeDir = appConfig.Store.Dir
	}
	textStore, err := store.Open(store.Config{
		Dir:        pathResolver.GetStoreDir(storeDir),
		SyncWrites: appConfig.Store.SyncWrites,
		Logger:     logger.New("store"),
	})
	if err != nil {
		log.Warnf("Text store unavailable, continuing without it: %v", err)
	} else {
		defer textStore.Close()
		opts.Store = textStore
	}

	sess := session.New(analyzer, coordinator, opts)
	defer sess.Close()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		if err := runCLI(ctx, sess, *textPath, textStore); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srvOpts := server.Options{FirstVisit: true}
	if textStore != nil {
		if text, ok, err := textStore.Load(); err != nil {
			log.Warnf("Could not restore saved text: %v", err)
		} else if ok {
			srvOpts.FirstVisit = false
			srvOpts.RestoredText = text
		}
	}
	srv := server.NewServer(sess, srvOpts)

	showStartupInfo(resolvedDataPath, pathResolver.GetConfigDir(), freq.Len(), freq.MaxRank())

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func runCLI(ctx context.Context, sess *session.Session, textPath string, textStore *store.TextStore) error {
	var (
		text string
		err  error
	)
	switch textPath {
	case "-":
		text, err = cli.ReadText(os.Stdin)
		if err != nil {
			return err
		}
		// stdin is spent, so there is no command loop
		return cli.NewInputHandler(sess).Check(ctx, text)
	case "":
		if textStore == nil {
			return fmt.Errorf("no -text given and no saved text")
		}
		var ok bool
		text, ok, err = textStore.Load()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no -text given and no saved text")
		}
		log.Debug("Checking the saved text")
	default:
		f, err := os.Open(textPath)
		if err != nil {
			return err
		}
		text, err = cli.ReadText(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return cli.NewInputHandler(sess).Start(ctx, text)
}

func buildChunks(listPath, dataDir string, chunkSize int) error {
	f, err := os.Open(listPath)
	if err != nil {
		return err
	}
	defer f.Close()

	words, err := corpus.ReadWordList(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", listPath, err)
	}
	n, err := corpus.WriteChunks(dataDir, words, chunkSize)
	if err != nil {
		return err
	}
	log.Printf("Wrote %d chunks (%s words) to %s", n, utils.FormatWithCommas(len(words)), dataDir)
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Debugf("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("Metrics server stopped: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Synonymy ] Finds the words you lean on too much.")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataPath, configDir string, words, maxRank int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " Synonymy ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("corpus: ( %s, %s words, ranks 1-%s )", dataPath, utils.FormatWithCommas(words), utils.FormatWithCommas(maxRank))
	log.Infof("config dir: %s", configDir)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
