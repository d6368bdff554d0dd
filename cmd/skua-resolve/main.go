// Copyright 2017 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command skua-resolve connects to a remote byte-oracle agent, reconstructs
// the target process's loaded-image set from a seed address, and prints the
// runtime address of a requested symbol in a requested shared object.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/endeav0r/skua"
	"github.com/endeav0r/skua/elf"
	"github.com/endeav0r/skua/transport"
)

func main() {
	configPath := flag.String("config", "/etc/skua/config.yaml", "path to the skua-resolve YAML configuration file")
	seedFlag := flag.String("seed", "", "seed address (hex, e.g. 0x7ffff7a00000); overrides the config file's seed")
	lib := flag.String("lib", "", "substring to match against a loaded image's recorded name (e.g. libc)")
	symbol := flag.String("symbol", "", "exported dynamic symbol name to resolve (e.g. system)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skua-resolve: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	seedStr := *seedFlag
	if seedStr == "" {
		seedStr = cfg.Seed
	}
	if seedStr == "" || *lib == "" || *symbol == "" {
		fmt.Fprintln(os.Stderr, "skua-resolve: -seed (or config seed), -lib, and -symbol are all required")
		os.Exit(2)
	}
	seed, err := parseAddr(seedStr)
	if err != nil {
		logger.Error("invalid seed address", slog.String("seed", seedStr), slog.Any("error", err))
		os.Exit(1)
	}

	endian := elf.EndianLittle
	if cfg.Endian == "big" {
		endian = elf.EndianBig
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	oracle, err := transport.Dial(ctx, cfg.OracleAddr, endian,
		transport.WithLogger(logger),
		transport.WithReadTimeout(5*time.Second),
	)
	if err != nil {
		logger.Error("failed to connect to oracle agent", slog.String("addr", cfg.OracleAddr), slog.Any("error", err))
		os.Exit(1)
	}
	defer oracle.Close()

	prog, err := skua.Open(seed, oracle)
	if err != nil {
		logger.Error("failed to reconstruct process image", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("reconstructed link-map", slog.Int("images", len(prog.Images())))

	addr, ok, err := prog.Resolve(*lib, *symbol)
	if err != nil {
		logger.Error("resolve failed", slog.String("lib", *lib), slog.String("symbol", *symbol), slog.Any("error", err))
		os.Exit(1)
	}
	if !ok {
		logger.Error("symbol not found", slog.String("lib", *lib), slog.String("symbol", *symbol))
		os.Exit(1)
	}

	fmt.Printf("0x%x\n", addr)
}

func parseAddr(s string) (uint64, error) {
	return strconv.ParseUint(trimHexPrefix(s), 16, 64)
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
