// Command mqttprops decodes MQTT 5 property blocks given as hex and prints
// their properties. Blocks can also be archived to Pebble or Redis.
//
//	mqttprops [flags] HEX...
//
// With no HEX arguments one block is read from each line of standard input.
// Every flag falls back to an MQTTPROPS_* environment variable.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpcme/coreMQTT/encoding"
	"github.com/rpcme/coreMQTT/pkg/logger"
	"github.com/rpcme/coreMQTT/stats"
	"github.com/rpcme/coreMQTT/store"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type options struct {
	capacity    int
	validate    bool
	strict      bool
	storeDir    string
	redisAddr   string
	key         string
	dump        bool
	metricsAddr string
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

func envInt(getenv func(string) string, name string, def int) int {
	if v, err := strconv.Atoi(getenv(name)); err == nil {
		return v
	}
	return def
}

func envBool(getenv func(string) string, name string) bool {
	v, _ := strconv.ParseBool(getenv(name))
	return v
}

func envString(getenv func(string) string, name, def string) string {
	if v := getenv(name); v != "" {
		return v
	}
	return def
}

func parseFlags(args []string, stderr io.Writer, getenv func(string) string) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("mqttprops", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.capacity, "capacity", envInt(getenv, "MQTTPROPS_CAPACITY", 32), "maximum properties per block")
	fs.BoolVar(&o.validate, "validate", envBool(getenv, "MQTTPROPS_VALIDATE"), "check UTF-8 strings")
	fs.BoolVar(&o.strict, "strict", envBool(getenv, "MQTTPROPS_STRICT"), "check UTF-8 strings and reject control characters")
	fs.StringVar(&o.storeDir, "store", getenv("MQTTPROPS_STORE"), "archive blocks into a Pebble database in this directory")
	fs.StringVar(&o.redisAddr, "redis", getenv("MQTTPROPS_REDIS"), "archive blocks into Redis at this address")
	fs.StringVar(&o.key, "key", envString(getenv, "MQTTPROPS_KEY", "block"), "archive key; numbered when several blocks are given")
	fs.BoolVar(&o.dump, "dump", envBool(getenv, "MQTTPROPS_DUMP"), "print every archived block instead of decoding input")
	fs.StringVar(&o.metricsAddr, "metrics-addr", getenv("MQTTPROPS_METRICS_ADDR"), "serve Prometheus metrics on this address until interrupted")
	fs.StringVar(&o.logLevel, "log-level", envString(getenv, "MQTTPROPS_LOG_LEVEL", "warn"), "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if o.capacity <= 0 {
		return o, nil, fmt.Errorf("capacity must be positive, got %d", o.capacity)
	}
	if o.storeDir != "" && o.redisAddr != "" {
		return o, nil, errors.New("-store and -redis are mutually exclusive")
	}
	if o.dump && o.storeDir == "" && o.redisAddr == "" {
		return o, nil, errors.New("-dump needs -store or -redis")
	}
	return o, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	opts, inputs, err := parseFlags(args, stderr, getenv)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "mqttprops:", err)
		}
		return exitUsage
	}

	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, "mqttprops:", err)
		return exitUsage
	}
	log := logger.NewSlogLogger(level, stderr)

	collector := stats.NewCollector()
	reg := prometheus.NewRegistry()
	collector.MustRegister(reg)

	archive, err := openArchive(opts, log, collector)
	if err != nil {
		log.Error("failed to open archive", "error", err)
		return exitFail
	}
	if archive != nil {
		defer archive.Close()
	}

	var srv *http.Server
	if opts.metricsAddr != "" {
		srv = serveMetrics(opts.metricsAddr, reg, log)
	}

	d := &decoder{
		opts:    opts,
		out:     stdout,
		log:     log,
		stats:   collector,
		archive: archive,
		backing: make([]encoding.Property, opts.capacity),
	}

	code := exitOK
	if opts.dump {
		code = d.dump(ctx)
	} else if len(inputs) > 0 {
		for i, in := range inputs {
			if !d.decode(ctx, d.keyFor(i, len(inputs)), in) {
				code = exitFail
			}
		}
	} else {
		code = d.decodeLines(ctx, stdin)
	}

	if srv != nil {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Warn("metrics server shutdown", "error", err)
		}
	}
	return code
}

func openArchive(opts options, log logger.Logger, collector *stats.Collector) (*store.Archive, error) {
	var s store.Store[store.Block]
	switch {
	case opts.storeDir != "":
		ps, err := store.NewPebbleStore[store.Block](store.DefaultPebbleStoreConfig(opts.storeDir))
		if err != nil {
			return nil, err
		}
		s = ps
	case opts.redisAddr != "":
		cfg := store.DefaultRedisStoreConfig()
		cfg.Addr = opts.redisAddr
		rs, err := store.NewRedisStore[store.Block](cfg)
		if err != nil {
			return nil, err
		}
		s = rs
	default:
		return nil, nil
	}

	cfg := store.DefaultArchiveConfig()
	cfg.MaxProperties = opts.capacity
	cfg.Logger = log
	cfg.Stats = collector
	return store.NewArchive(s, cfg)
}

func serveMetrics(addr string, reg *prometheus.Registry, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

type decoder struct {
	opts    options
	out     io.Writer
	log     logger.Logger
	stats   *stats.Collector
	archive *store.Archive
	backing []encoding.Property
}

func (d *decoder) keyFor(i, n int) string {
	if n == 1 {
		return d.opts.key
	}
	return d.opts.key + "/" + strconv.Itoa(i)
}

func (d *decoder) decodeLines(ctx context.Context, r io.Reader) int {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		d.log.Error("failed to read input", "error", err)
		return exitFail
	}

	code := exitOK
	for i, line := range lines {
		if !d.decode(ctx, d.keyFor(i, len(lines)), line) {
			code = exitFail
		}
	}
	return code
}

// parseHex accepts hex digits with optional 0x prefix, spaces, colons and dashes.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':', '-':
			return -1
		}
		return r
	}, s)
	return hex.DecodeString(s)
}

// decode parses one hex block, prints it and archives it. It reports whether
// the block was valid.
func (d *decoder) decode(ctx context.Context, key, in string) bool {
	data, err := parseHex(in)
	if err != nil {
		fmt.Fprintf(d.out, "%s: invalid hex: %v\n", key, err)
		return false
	}

	props, err := encoding.NewProperties(d.backing)
	if err != nil {
		fmt.Fprintf(d.out, "%s: %v\n", key, err)
		return false
	}

	n, err := props.Deserialize(data)
	d.stats.ObserveDecode(n, err)
	if err != nil {
		fmt.Fprintf(d.out, "%s: decode failed at byte %d: %v\n", key, n, err)
		return false
	}

	d.print(key, n, props)
	if n < len(data) {
		fmt.Fprintf(d.out, "  (%d trailing bytes ignored)\n", len(data)-n)
	}

	if d.opts.validate || d.opts.strict {
		if err := props.ValidateUTF8(d.opts.strict); err != nil {
			fmt.Fprintf(d.out, "%s: invalid string: %v\n", key, err)
			return false
		}
	}

	if d.archive != nil {
		if _, err := d.archive.Put(ctx, key, props); err != nil {
			fmt.Fprintf(d.out, "%s: archive failed: %v\n", key, err)
			return false
		}
	}
	return true
}

func (d *decoder) print(key string, n int, props *encoding.Properties) {
	fmt.Fprintf(d.out, "%s: %d bytes, %d properties\n", key, n, props.Len())
	for _, prop := range props.Items() {
		fmt.Fprintf(d.out, "  %s\n", prop)
	}
}

func (d *decoder) dump(ctx context.Context) int {
	keys, err := d.archive.Keys(ctx)
	if err != nil {
		d.log.Error("failed to list archive", "error", err)
		return exitFail
	}

	code := exitOK
	for _, key := range keys {
		props, err := encoding.NewProperties(d.backing)
		if err != nil {
			fmt.Fprintf(d.out, "%s: %v\n", key, err)
			return exitFail
		}
		if _, err := d.archive.Get(ctx, key, props); err != nil {
			fmt.Fprintf(d.out, "%s: %v\n", key, err)
			code = exitFail
			continue
		}
		block, err := d.archive.Block(ctx, key)
		if err != nil {
			fmt.Fprintf(d.out, "%s: %v\n", key, err)
			code = exitFail
			continue
		}
		d.print(key, len(block.Data), props)
	}
	return code
}
