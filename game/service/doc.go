// Package service provides the turn-based game layer used by the network
// transports.
//
// GameService wraps a session.Manager and a level manager. Every session it
// creates is voiced by a sound.Narrator, so clients without a frame loop or
// speakers (MCP tools, the HTTP API) get each cue back as a line of text.
// Act and BulkAct fast-forward game time through every cue an action
// triggers, so a call returns only once the next action would be accepted.
//
// Usage:
//
//	levels, _ := config.NewManager("")
//	svc := service.NewGameService(session.NewManager(), levels)
//
//	info, err := svc.CreateSession(ctx, "cueva")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.Act(ctx, info.ID, "forward")
//	for _, line := range result.Narration {
//		fmt.Println(line)
//	}
package service
