package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hexlane/holdout/internal/game"
)

func main() {
	levelPath := flag.String("level", "", "level file to load (empty = built-in killhouse)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "simulation RNG seed")
	feedAddr := flag.String("feed", "", "spectator feed listen address, e.g. :8090 (empty = off)")
	mute := flag.Bool("mute", false, "disable audio")
	flag.Parse()

	lv := game.DefaultLevel()
	if *levelPath != "" {
		loaded, err := game.LoadLevel(*levelPath)
		if err != nil {
			log.Fatalf("load level %s: %v", *levelPath, err)
		}
		lv = loaded
	}

	sim := game.NewSim(lv, *seed)

	var audio *game.AudioSystem
	if !*mute {
		a, err := game.NewAudioSystem()
		if err != nil {
			log.Printf("audio unavailable, continuing silent: %v", err)
		} else {
			audio = a
		}
	}

	var feed *game.Feed
	if *feedAddr != "" {
		feed = game.NewFeed(log.Default())
		go func() {
			if err := feed.ListenAndServe(*feedAddr); err != nil {
				log.Printf("spectator feed stopped: %v", err)
			}
		}()
		log.Printf("spectator feed on ws://%s/feed", *feedAddr)
	}

	ebiten.SetWindowTitle("Holdout")
	ebiten.SetWindowSize(1280, 720)
	if err := ebiten.RunGame(game.New(sim, audio, feed)); err != nil {
		log.Fatal(err)
	}
}
