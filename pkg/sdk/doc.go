// Package fieldaim embeds the antenna-aiming core in a Go program: the site
// catalog stored in Redis, live aiming sessions with an audible cue loop, and
// the stateless bearing and sector helpers.
//
// # Stateless helpers
//
//	sol, _ := fieldaim.Bearing(
//	    fieldaim.Coordinate{Lat: 40.0, Lon: -105.0},
//	    fieldaim.Coordinate{Lat: 40.1, Lon: -105.1},
//	)
//	best, ok := fieldaim.MatchSector(sectors, sol.Bearing)
//
// # Sessions
//
//	client, _ := fieldaim.New(ctx,
//	    fieldaim.WithRedis("localhost:6379", ""),
//	    fieldaim.WithToneSink(func(sessionID string, c fieldaim.Cadence) { beep(c.Tone) }),
//	)
//	defer client.Close()
//
//	s, _ := client.Sessions().Create(ctx)
//	_, _ = client.Sessions().UpdatePosition(ctx, s.ID, fix)
//	_, _ = client.Sessions().SelectSite(ctx, s.ID, "tower-12")
//	for h := range compass {
//	    snap, _ := client.Sessions().UpdateHeading(ctx, s.ID, h)
//	    if snap.Aligned { ... }
//	}
package fieldaim
