// Command wanikani queries one WaniKani v1.4 endpoint and prints the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/jonesinator/crabigator/internal/app"
	"github.com/jonesinator/crabigator/internal/config"
	"github.com/jonesinator/crabigator/internal/logger"
	"github.com/jonesinator/crabigator/internal/render"
	"github.com/jonesinator/crabigator/pkg/wanikani"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitService = 2
)

type command func(ctx context.Context, c *wanikani.Client, arg string) (any, error)

var commands = map[string]command{
	wanikani.ResourceUserInformation: func(ctx context.Context, c *wanikani.Client, _ string) (any, error) {
		return c.UserInformation(ctx)
	},
	wanikani.ResourceStudyQueue: func(ctx context.Context, c *wanikani.Client, _ string) (any, error) {
		return c.StudyQueue(ctx)
	},
	wanikani.ResourceLevelProgression: func(ctx context.Context, c *wanikani.Client, _ string) (any, error) {
		return c.LevelProgression(ctx)
	},
	wanikani.ResourceSRSDistribution: func(ctx context.Context, c *wanikani.Client, _ string) (any, error) {
		return c.SRSDistribution(ctx)
	},
	wanikani.ResourceRecentUnlocks: func(ctx context.Context, c *wanikani.Client, arg string) (any, error) {
		limit, err := optionalInt("limit", arg)
		if err != nil {
			return nil, err
		}
		items, err := c.RecentUnlocks(ctx, wanikani.RecentUnlocksQuery{Limit: limit})
		return render.Items(items), err
	},
	wanikani.ResourceCriticalItems: func(ctx context.Context, c *wanikani.Client, arg string) (any, error) {
		percent, err := optionalInt("percent", arg)
		if err != nil {
			return nil, err
		}
		items, err := c.CriticalItems(ctx, wanikani.CriticalItemsQuery{Percent: percent})
		return render.Items(items), err
	},
	wanikani.ResourceRadicals: func(ctx context.Context, c *wanikani.Client, arg string) (any, error) {
		levels, err := parseLevels(arg)
		if err != nil {
			return nil, err
		}
		return c.Radicals(ctx, levels...)
	},
	wanikani.ResourceKanji: func(ctx context.Context, c *wanikani.Client, arg string) (any, error) {
		levels, err := parseLevels(arg)
		if err != nil {
			return nil, err
		}
		return c.Kanji(ctx, levels...)
	},
	wanikani.ResourceVocabulary: func(ctx context.Context, c *wanikani.Client, arg string) (any, error) {
		levels, err := parseLevels(arg)
		if err != nil {
			return nil, err
		}
		return c.Vocabulary(ctx, levels...)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("wanikani", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.StringP("output", "o", render.FormatJSON, "output format: json or yaml")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: wanikani [flags] <endpoint> [argument]\n\nendpoints: %s\n\nflags:\n", strings.Join(endpointNames(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	rest := fs.Args()
	if len(rest) == 0 || len(rest) > 2 {
		fs.Usage()
		return exitFailure
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "wanikani: unknown endpoint %q\n", rest[0])
		fs.Usage()
		return exitFailure
	}
	arg := ""
	if len(rest) == 2 {
		arg = rest[1]
	}

	format, err := render.ParseFormat(*output)
	if err != nil {
		return fail(stderr, err)
	}

	v := viper.New()
	if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
		return fail(stderr, err)
	}
	cfg, err := config.LoadWith(v)
	if err != nil {
		return fail(stderr, fmt.Errorf("load config: %w", err))
	}

	log := logger.New(cfg.LogLevel, stderr)
	defer func() { _ = log.Sync() }()

	result, err := cmd(ctx, app.NewClient(cfg, log), arg)
	if err != nil {
		return fail(stderr, err)
	}
	if err := render.Write(stdout, format, result); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

// fail prints err and maps it to an exit code. Envelope errors print exactly
// the service's code and message.
func fail(stderr io.Writer, err error) int {
	var svcErr *wanikani.ServiceError
	if errors.As(err, &svcErr) {
		fmt.Fprintf(stderr, "wanikani: %s\n", svcErr.Error())
		return exitService
	}
	fmt.Fprintf(stderr, "wanikani: %v\n", err)
	return exitFailure
}

func optionalInt(name, arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return n, nil
}

func parseLevels(arg string) ([]int, error) {
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	levels := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", p, err)
		}
		levels = append(levels, n)
	}
	return levels, nil
}

func endpointNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
