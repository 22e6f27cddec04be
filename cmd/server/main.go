package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"task-chatter/internal/agent"
	"task-chatter/internal/auth"
	"task-chatter/internal/chat"
	"task-chatter/internal/config"
	"task-chatter/internal/conversation"
	"task-chatter/internal/httpapi"
	"task-chatter/internal/llm"
	"task-chatter/internal/ratelimit"
	"task-chatter/internal/scheduler"
	"task-chatter/internal/storage"
	"task-chatter/internal/task"
	"task-chatter/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	tasks, err := newTaskStore(cfg.TasksFilePath)
	if err != nil {
		log.Fatalf("failed to init task store: %v", err)
	}
	conversations, err := newConversationStore(cfg.ConversationsFilePath)
	if err != nil {
		log.Fatalf("failed to init conversation store: %v", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	ag := agent.New(tasks, llmClient, readSystemPrompt(cfg.SystemPromptPath), cfg.ChatContextMessages)
	limiter := ratelimit.New(cfg.ChatRateLimit)
	chatSvc := chat.NewService(
		ag,
		conversations,
		limiter,
		rec,
		cfg.ChatContextMessages,
		time.Duration(cfg.ChatTimeoutSeconds)*time.Second,
	)

	sched := scheduler.New(limiter, rec)
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, chatSvc, cfg.TelegramBindings())
		if err != nil {
			log.Printf("failed to start telegram gateway: %v", err)
		} else {
			go bot.Start(ctx)
		}
	}

	srv := httpapi.NewServer(
		cfg.HTTPPort,
		auth.New(cfg.JWTSecret),
		chatSvc,
		tasks,
		conversations,
		cfg.CORSOrigins,
		cfg.ChatMaxMessageLength,
	)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		log.Println("shutting down...")
		if err := srv.Stop(); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

func newTaskStore(path string) (task.Store, error) {
	if path == "" {
		log.Println("⚠️ TASKS_FILE_PATH empty, tasks will not survive restarts")
		return task.NewMemoryStore(), nil
	}
	return task.NewFileRepository(path)
}

func newConversationStore(path string) (conversation.Store, error) {
	if path == "" {
		log.Println("⚠️ CONVERSATIONS_FILE_PATH empty, conversations will not survive restarts")
		return conversation.NewMemoryStore(), nil
	}
	return conversation.NewFileRepository(path)
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}
