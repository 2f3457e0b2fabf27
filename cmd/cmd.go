// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/router"
	"github.com/desertthunder/parle/internal/tasks"
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

func fileArg(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the token database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Parle session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (prompted when omitted)"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Log in and store the access token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e", "username"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (prompted when omitted)"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored access token",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged in user",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Show the local session state without calling the API",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// routesCommand lists the client screens and their guards
func routesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "List client routes and whether they require a session",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Routes,
	}
}

// openCommand navigates to a client route through the guard
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Resolve a client route through the guard, optionally in the browser",
		Arguments: fileArg("path"),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "browser", Aliases: []string{"b"}, Usage: "Open the resolved page in the web app"},
		},
		Action: r.Open,
	}
}

func flashcardsCommand(r *Runner) *cli.Command {
	fields := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "front", Usage: "Prompt side"},
			&cli.StringFlag{Name: "back", Usage: "Answer side"},
			&cli.StringFlag{Name: "category", Usage: "Category"},
			&cli.StringFlag{Name: "audio-url", Usage: "Pronunciation audio URL"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Tag (repeatable)"},
		}
	}
	filters := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Filter by language"},
			&cli.StringFlag{Name: "category", Usage: "Filter by category"},
			&cli.BoolFlag{Name: "due", Usage: "Only cards due for review"},
		}
	}

	return &cli.Command{
		Name:    "flashcards",
		Aliases: []string{"cards", "fc"},
		Usage:   "Spaced-repetition flashcards",
		Before:  r.requires("/flashcards"),
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List flashcards",
				Flags:  append(append([]cli.Flag{}, filters()...), jsonFlag()),
				Action: r.FlashcardsList,
			},
			{
				Name:      "get",
				Usage:     "Show one flashcard",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.FlashcardsGet,
			},
			{
				Name:  "create",
				Usage: "Create a flashcard",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Card language", Value: models.DefaultSpeechLanguage},
					jsonFlag(),
				}, fields()...),
				Action: r.FlashcardsCreate,
			},
			{
				Name:      "update",
				Usage:     "Change a flashcard; only the given flags are sent",
				Arguments: idArg(),
				Flags:     append([]cli.Flag{jsonFlag()}, fields()...),
				Action:    r.FlashcardsUpdate,
			},
			{
				Name:      "review",
				Usage:     "Record a review with a quality from 0 (forgot) to 5 (perfect)",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: "Recall quality 0-5", Required: true},
					jsonFlag(),
				},
				Action: r.FlashcardsReview,
			},
			{
				Name:      "delete",
				Usage:     "Delete a flashcard",
				Arguments: idArg(),
				Action:    r.FlashcardsDelete,
			},
			{
				Name:      "import",
				Usage:     "Create flashcards from a CSV file with front and back columns",
				Arguments: fileArg("file"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Language for rows without one", Value: models.DefaultSpeechLanguage},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent requests", Value: tasks.DefaultWorkers},
				},
				Action: r.FlashcardsImport,
			},
			{
				Name:  "export",
				Usage: "Export flashcards as CSV or Markdown",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv or markdown", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
					&cli.StringFlag{Name: "title", Usage: "Markdown document title", Value: "Flashcards"},
				}, filters()...),
				Action: r.FlashcardsExport,
			},
		},
	}
}

func recordingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recordings",
		Aliases: []string{"rec"},
		Usage:   "Speaking exercise recordings",
		Before:  r.requires("/practice"),
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload an audio file and print its stored URL",
				Arguments: fileArg("file"),
				Action:    r.RecordingsUpload,
			},
			{
				Name:  "list",
				Usage: "List recordings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Filter by language"},
					&cli.StringFlag{Name: "exercise-type", Aliases: []string{"t"}, Usage: "Filter by exercise type"},
					jsonFlag(),
				},
				Action: r.RecordingsList,
			},
			{
				Name:      "get",
				Usage:     "Show one recording",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.RecordingsGet,
			},
			{
				Name:  "create",
				Usage: "Save a recording for an uploaded audio URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "audio-url", Usage: "URL returned by upload", Required: true},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Recording language", Value: models.DefaultSpeechLanguage},
					&cli.StringFlag{Name: "exercise-type", Aliases: []string{"t"}, Usage: "Exercise type", Value: "reading"},
					&cli.IntFlag{Name: "duration", Usage: "Length in seconds"},
					&cli.StringFlag{Name: "transcript", Usage: "Transcript text"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
					jsonFlag(),
				},
				Action: r.RecordingsCreate,
			},
			{
				Name:      "update",
				Usage:     "Change the details of a recording",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Recording language"},
					&cli.StringFlag{Name: "exercise-type", Aliases: []string{"t"}, Usage: "Exercise type"},
					&cli.IntFlag{Name: "duration", Usage: "Length in seconds"},
					&cli.StringFlag{Name: "transcript", Usage: "Transcript text"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
					jsonFlag(),
				},
				Action: r.RecordingsUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a recording",
				Arguments: idArg(),
				Action:    r.RecordingsDelete,
			},
		},
	}
}

func journalCommand(r *Runner) *cli.Command {
	fields := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "content", Usage: "Entry text"},
			&cli.StringSliceFlag{Name: "practiced", Usage: "Skill practiced (repeatable)"},
			&cli.StringSliceFlag{Name: "difficulty", Usage: "Difficulty met (repeatable)"},
			&cli.StringSliceFlag{Name: "improvement", Usage: "Improvement noticed (repeatable)"},
			&cli.StringSliceFlag{Name: "phrase", Usage: "New phrase learned (repeatable)"},
		}
	}

	return &cli.Command{
		Name:   "journal",
		Usage:  "Practice journal",
		Before: r.requires("/journal"),
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List journal entries",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.JournalList,
			},
			{
				Name:      "get",
				Usage:     "Show one entry",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.JournalGet,
			},
			{
				Name:   "create",
				Usage:  "Write an entry",
				Flags:  append([]cli.Flag{jsonFlag()}, fields()...),
				Action: r.JournalCreate,
			},
			{
				Name:      "update",
				Usage:     "Change an entry; only the given flags are sent",
				Arguments: idArg(),
				Flags:     append([]cli.Flag{jsonFlag()}, fields()...),
				Action:    r.JournalUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an entry",
				Arguments: idArg(),
				Action:    r.JournalDelete,
			},
			{
				Name:  "export",
				Usage: "Export the journal as Markdown or plain text",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "markdown or text", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
				},
				Action: r.JournalExport,
			},
		},
	}
}

func scheduleCommand(r *Runner) *cli.Command {
	fields := func() []cli.Flag {
		return []cli.Flag{
			&cli.IntFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day of week, 0 (Monday) to 6"},
			&cli.StringFlag{Name: "start", Usage: "Start time, HH:MM"},
			&cli.IntFlag{Name: "duration", Usage: "Length in minutes"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Activity type"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Activity name"},
			&cli.BoolFlag{Name: "completed", Usage: "Mark as completed"},
		}
	}

	return &cli.Command{
		Name:   "schedule",
		Usage:  "Weekly study schedule",
		Before: r.requires("/schedule"),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List schedule blocks",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "day", Aliases: []string{"d"}, Usage: "Only blocks on this day, 0 (Monday) to 6"},
					jsonFlag(),
				},
				Action: r.ScheduleList,
			},
			{
				Name:      "get",
				Usage:     "Show one block",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ScheduleGet,
			},
			{
				Name:   "create",
				Usage:  "Add a block",
				Flags:  append([]cli.Flag{jsonFlag()}, fields()...),
				Action: r.ScheduleCreate,
			},
			{
				Name:      "update",
				Usage:     "Change a block; only the given flags are sent",
				Arguments: idArg(),
				Flags:     append([]cli.Flag{jsonFlag()}, fields()...),
				Action:    r.ScheduleUpdate,
			},
			{
				Name:      "complete",
				Usage:     "Toggle a block's completed flag",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ScheduleComplete,
			},
			{
				Name:      "delete",
				Usage:     "Delete a block",
				Arguments: idArg(),
				Action:    r.ScheduleDelete,
			},
		},
	}
}

func progressCommand(r *Runner) *cli.Command {
	fields := func() []cli.Flag {
		return []cli.Flag{
			&cli.FloatFlag{Name: "hours", Usage: "Hours studied"},
			&cli.IntFlag{Name: "cards", Usage: "Cards reviewed"},
			&cli.IntFlag{Name: "exercises", Usage: "Exercises completed"},
		}
	}

	return &cli.Command{
		Name:   "progress",
		Usage:  "Daily study progress",
		Before: r.requires("/progress"),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List progress records",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Filter by language"},
					&cli.StringFlag{Name: "from", Usage: "Start date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "End date, YYYY-MM-DD"},
					jsonFlag(),
				},
				Action: r.ProgressList,
			},
			{
				Name:  "stats",
				Usage: "Show aggregated statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Filter by language"},
					&cli.StringFlag{Name: "period", Usage: "week, month, 3months, year or all", Value: "month"},
				},
				Action: r.ProgressStats,
			},
			{
				Name:      "get",
				Usage:     "Show one record",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ProgressGet,
			},
			{
				Name:  "create",
				Usage: "Log a day of study",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Study language", Value: models.DefaultSpeechLanguage},
					&cli.StringFlag{Name: "date", Usage: "Day studied, YYYY-MM-DD (default today)"},
					jsonFlag(),
				}, fields()...),
				Action: r.ProgressCreate,
			},
			{
				Name:      "update",
				Usage:     "Change a record; only the given flags are sent",
				Arguments: idArg(),
				Flags:     append([]cli.Flag{jsonFlag()}, fields()...),
				Action:    r.ProgressUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a record",
				Arguments: idArg(),
				Action:    r.ProgressDelete,
			},
		},
	}
}

func practiceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "practice",
		Usage: "OCR, pronunciation, text-to-speech and summary exercises",
		Commands: []*cli.Command{
			{
				Name:      "ocr",
				Usage:     "Extract text from an image",
				Arguments: fileArg("image"),
				Before:    r.requires("/upload"),
				Action:    r.PracticeOCR,
			},
			{
				Name:   "analyze",
				Usage:  "Analyze a text for reading practice",
				Before: r.requires("/practice"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Text to analyze", Required: true},
				},
				Action: r.PracticeAnalyze,
			},
			{
				Name:      "speech",
				Usage:     "Score pronunciation of a recording against the expected text",
				Arguments: fileArg("audio"),
				Before:    r.requires("/practice"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "expected", Usage: "Text that was read aloud"},
				},
				Action: r.PracticeSpeech,
			},
			{
				Name:      "prosody",
				Usage:     "Analyze rhythm and intonation of a recording",
				Arguments: fileArg("audio"),
				Before:    r.requires("/practice"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "expected", Usage: "Text that was read aloud"},
				},
				Action: r.PracticeProsody,
			},
			{
				Name:   "tts",
				Usage:  "Generate speech for a text",
				Before: r.requires("/practice"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Text to read", Required: true},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Speech language", Value: models.DefaultSpeechLanguage},
					&cli.BoolFlag{Name: "slow", Usage: "Slow speech"},
				},
				Action: r.PracticeTTS,
			},
			{
				Name:      "audio",
				Usage:     "Download a generated audio file",
				Arguments: fileArg("name"),
				Before:    r.requires("/practice"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (default: the file name)"},
				},
				Action: r.PracticeAudio,
			},
			{
				Name:      "summary",
				Usage:     "Evaluate a spoken summary of a source text",
				Arguments: fileArg("audio"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "Source text that was summarized", Required: true},
					&cli.StringFlag{Name: "text-id", Usage: "Reading text identifier", Value: "cli"},
				},
				Action: r.PracticeSummary,
			},
			{
				Name:  "suggest",
				Usage: "Generate model summaries for a source text",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "Source text", Required: true},
					&cli.StringFlag{Name: "text-id", Usage: "Reading text identifier", Value: "cli"},
				},
				Action: r.PracticeSuggest,
			},
			{
				Name:   "health",
				Usage:  "Check the API health endpoint",
				Action: r.PracticeHealth,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "api",
		Usage:  "Direct calls to the Parle API with the stored token",
		Before: r.requires(router.DashboardPath),
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET, prints the response body",
				Arguments: fileArg("path"),
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with JSON body",
				Arguments: fileArg("path"),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
