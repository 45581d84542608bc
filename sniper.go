// Copyright 2016 Florin Pățan
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command sniper
//
// This is a Slack bot that answers sniper mentions with a quote and map or
// version questions with the latest game version.
//
// To run this you need to set the ` BOT_API_KEY ` environment variable with
// the Slack bot token (or put it in a .token file) and that's it. Set
// ` BOT_NAME ` when the bot user is not called "sniper".
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nlopes/slack"
	"golang.org/x/sync/errgroup"

	"github.com/gobridge/sniper/bot"
	"github.com/gobridge/sniper/config"
	"github.com/gobridge/sniper/getdota"
	"github.com/gobridge/sniper/handlers"
	"github.com/gobridge/sniper/status"
)

var botVersion = "HEAD"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   15 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	slackAPI := slack.New(cfg.Token,
		slack.OptionHTTPClient(httpClient),
		slack.OptionDebug(cfg.DevMode),
		slack.OptionLog(log.New(os.Stderr, "slack: ", log.Lshortfile|log.LstdFlags)),
	)

	sniper := bot.New(
		cfg.Name,
		handlers.Default(getdota.New(httpClient, cfg.VersionURL)),
		bot.SlackRoster{API: slackAPI},
		bot.SlackPoster{API: slackAPI},
		cfg.DevMode,
		log.Printf,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           status.Handler(sniper, botVersion),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return sniper.Run(gctx, bot.NewRTMStream(slackAPI.NewRTM()))
	})
	g.Go(func() error {
		log.Printf("Serving status on %s\n", cfg.HealthAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.Printf("Starting %s version %s\n", cfg.Name, botVersion)
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	log.Println("Shutdown complete.")
}
