package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/genai"
)

type Message struct {
	Role      string    `json:"role"` // "user" / "model"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Session struct {
	Messages   []Message `json:"messages"`
	LastActive time.Time `json:"last_active"`
}

// Manager 每位顾客一份对话历史，按轮数截断
type Manager struct {
	mu         sync.Mutex
	sessions   map[int64]*Session
	maxTurns   int
	timeout    time.Duration
	sessionDir string
}

// NewManager timeout 为 0 时会话不过期
func NewManager(maxTurns int, timeout time.Duration, sessionDir string) (*Manager, error) {
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Manager{
		sessions:   make(map[int64]*Session),
		maxTurns:   maxTurns,
		timeout:    timeout,
		sessionDir: sessionDir,
	}, nil
}

func (m *Manager) sessionFile(user int64) string {
	return filepath.Join(m.sessionDir, fmt.Sprintf("session_%d.json", user))
}

// session 调用方需持有锁；首次访问时尝试从文件恢复
func (m *Manager) session(user int64) *Session {
	s, ok := m.sessions[user]
	if !ok {
		if data, err := os.ReadFile(m.sessionFile(user)); err == nil {
			var restored Session
			if json.Unmarshal(data, &restored) == nil {
				s = &restored
			}
		}
		if s == nil {
			s = &Session{LastActive: time.Now()}
		}
		m.sessions[user] = s
	}
	// 超时后开始新的会话
	if m.timeout > 0 && time.Since(s.LastActive) > m.timeout {
		s.Messages = nil
	}
	return s
}

// AddUserMessage 添加顾客发来的消息
func (m *Manager) AddUserMessage(user int64, content string) {
	m.add(user, "user", content)
}

// AddBotReply 添加导购的回复
func (m *Manager) AddBotReply(user int64, content string) {
	m.add(user, "model", content)
}

func (m *Manager) add(user int64, role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(user)
	s.Messages = append(s.Messages, Message{Role: role, Content: content, Timestamp: time.Now()})
	s.LastActive = time.Now()
	m.trim(s)
}

// GetHistory 获取对话历史，转换为 genai.Content 格式
func (m *Manager) GetHistory(user int64) []*genai.Content {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(user)
	contents := make([]*genai.Content, 0, len(s.Messages))
	for _, msg := range s.Messages {
		var role genai.Role = genai.RoleUser
		if msg.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

// Len 当前保留的消息条数
func (m *Manager) Len(user int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.session(user).Messages)
}

// Reset 清空某位顾客的历史
func (m *Manager) Reset(user int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(user).Messages = nil
}

// Save 持久化所有会话
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for user, s := range m.sessions {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal session %d: %w", user, err)
		}
		if err := os.WriteFile(m.sessionFile(user), data, 0644); err != nil {
			return fmt.Errorf("write session %d: %w", user, err)
		}
	}
	return nil
}

func (m *Manager) trim(s *Session) {
	// 保留最近 maxTurns*2 条消息（每轮 = 1 user + 1 model）
	max := m.maxTurns * 2
	if len(s.Messages) > max {
		s.Messages = s.Messages[len(s.Messages)-max:]
	}
}
