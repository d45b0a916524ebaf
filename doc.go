// Package messageboard provides the scheduling and active-state engine for
// a single-line message display board.
//
// It owns a bounded set of scheduled text messages, each valid over a
// half-open time window, resolves which messages are currently active
// given wall-clock time and the board's global on/off switch, and pushes
// state-change events to subscribers in real time. Rendering, transports,
// and authentication live outside this package.
//
// # Architecture
//
//   - MessageStore: durable message collection (add/delete/get/list) over a
//     pluggable MessageRepository.
//   - ConfigService: persisted board configuration (rotation duration,
//     scroll speed, on/off) over a ConfigRepository.
//   - Engine: derives the active message set from store + config + Clock;
//     recomputes on mutation and on a periodic tick, diffing against the
//     previous set so subscribers see exactly one event per transition.
//   - Hub: non-blocking publish/subscribe fan-out with per-subscriber FIFO
//     ordering.
//   - Board: facade serializing mutations over the whole triple.
//   - Gateway: stateless command dispatcher mapping named commands
//     (add_message, delete_message, get_messages, save_configuration,
//     turn_on, turn_off, is_on, replace_message) to board operations with
//     a uniform success/error envelope.
//
// # Quick Start
//
//	logger := &messageboard.NoopLogger{}
//	repos, _ := file.NewRepositories("messageboard.conf")
//
//	hub := messageboard.NewHub(logger)
//	store, _ := messageboard.NewMessageStore(
//	    messageboard.WithStoreRepository(repos.Message),
//	    messageboard.WithStoreLogger(logger),
//	)
//	config, _ := messageboard.NewConfigService(
//	    messageboard.WithConfigRepository(repos.Config),
//	    messageboard.WithConfigLogger(logger),
//	    messageboard.WithConfigHub(hub),
//	)
//	engine, _ := messageboard.NewEngine(
//	    messageboard.WithEngineStore(store),
//	    messageboard.WithEngineConfig(config),
//	    messageboard.WithEngineHub(hub),
//	    messageboard.WithEngineLogger(logger),
//	)
//	board, _ := messageboard.NewBoard(
//	    messageboard.WithBoardStore(store),
//	    messageboard.WithBoardConfig(config),
//	    messageboard.WithBoardEngine(engine),
//	    messageboard.WithBoardLogger(logger),
//	)
//
//	ctx := context.Background()
//	_ = board.Start(ctx)
//	go engine.Run(ctx)
//
//	now := time.Now().Unix()
//	msg, _ := board.AddMessage(ctx, "Hello", now, now+3600)
//
// For SQL-backed persistence use the adapters/relica package with MySQL,
// PostgreSQL, or SQLite, applying the embedded migrations first. The
// standalone server under cmd/messageboard-server binds the gateway to an
// HTTP API.
package messageboard
