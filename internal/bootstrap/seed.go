package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@vidspace.local"
	DemoPassword = "demo1234"
)

type demoChannel struct {
	owner       string
	name        string
	handle      string
	description string
	videos      []demoVideo
}

type demoVideo struct {
	title    string
	duration string
	category string
	shorts   bool
}

var demoChannels = []demoChannel{
	{
		owner: "gamer", name: "Gaming Hub", handle: "gaminghub",
		description: "Let's plays and speedruns.",
		videos: []demoVideo{
			{title: "Speedrun any% world record attempt", duration: "42:17", category: "Gaming"},
			{title: "Top 10 hidden levels", duration: "12:05", category: "Gaming"},
			{title: "One-minute boss fight", duration: "0:58", category: "Gaming", shorts: true},
		},
	},
	{
		owner: "chef", name: "Kitchen Notes", handle: "kitchennotes",
		description: "Weeknight recipes.",
		videos: []demoVideo{
			{title: "Fresh pasta from scratch", duration: "18:40", category: "Cooking"},
			{title: "Five knife skills everyone should know", duration: "9:12", category: "Cooking"},
		},
	},
	{
		owner: "coder", name: "Code Cast", handle: "codecast",
		description: "Short programming lessons.",
		videos: []demoVideo{
			{title: "Goroutines explained", duration: "15:31", category: "Education"},
			{title: "Writing table driven tests", duration: "11:02", category: "Education"},
		},
	},
}

// SeedDemo loads sample users, channels, videos and a space. It does
// nothing when the demo viewer already exists and returns the videos it
// created so callers can index them.
func SeedDemo(ctx context.Context, store storage.Storage, log zerolog.Logger) ([]entity.Video, error) {
	if _, err := store.GetUserByEmail(ctx, DemoEmail); err == nil {
		log.Info().Msg("demo data already present, skipping seed")
		return nil, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	viewer := &entity.User{
		Username:     strPtr("demo"),
		Email:        strPtr(DemoEmail),
		Password:     strPtr(string(hash)),
		FirstName:    strPtr("Demo"),
		AuthProvider: "email",
		IsVerified:   true,
	}
	if err := store.CreateUser(ctx, viewer); err != nil {
		return nil, fmt.Errorf("seed viewer: %w", err)
	}

	var (
		videos     []entity.Video
		channelIDs []string
	)
	for _, dc := range demoChannels {
		owner := &entity.User{
			Username:     strPtr(dc.owner),
			Email:        strPtr(dc.owner + "@vidspace.local"),
			AuthProvider: "email",
		}
		if err := store.CreateUser(ctx, owner); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", dc.owner, err)
		}

		ch := &entity.Channel{
			UserID:      owner.ID,
			Name:        dc.name,
			Username:    dc.handle,
			Avatar:      strPtr("https://api.dicebear.com/7.x/shapes/svg?seed=" + dc.handle),
			Description: strPtr(dc.description),
		}
		if err := store.CreateChannel(ctx, ch); err != nil {
			return nil, fmt.Errorf("seed channel %s: %w", dc.handle, err)
		}
		channelIDs = append(channelIDs, ch.ID)

		for i, dv := range dc.videos {
			v := &entity.Video{
				Title:     dv.title,
				Thumbnail: fmt.Sprintf("https://picsum.photos/seed/%s-%d/640/360", dc.handle, i),
				VideoURL:  strPtr("https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"),
				Duration:  dv.duration,
				ChannelID: ch.ID,
				IsShorts:  dv.shorts,
				Category:  strPtr(dv.category),
			}
			if err := store.CreateVideo(ctx, v); err != nil {
				return nil, fmt.Errorf("seed video %q: %w", dv.title, err)
			}
			videos = append(videos, *v)
		}
	}

	if _, err := store.Subscribe(ctx, viewer.ID, channelIDs[0]); err != nil {
		return nil, fmt.Errorf("seed subscription: %w", err)
	}
	space := &entity.Space{
		Name:       "Weekend",
		UserID:     viewer.ID,
		ChannelIDs: channelIDs[:2],
		Icon:       strPtr("sofa"),
		Color:      strPtr("#f97316"),
	}
	if err := store.CreateSpace(ctx, space); err != nil {
		return nil, fmt.Errorf("seed space: %w", err)
	}

	log.Info().
		Int("channels", len(channelIDs)).
		Int("videos", len(videos)).
		Str("login", DemoEmail).
		Msg("demo data seeded")
	return videos, nil
}

func strPtr(s string) *string {
	return &s
}
