// LocalDecider — локальная замена внешнего сервиса принятия решений.
// Боты распознаются по User-Agent, атакующие сигнатуры — по пути и
// строке запроса, частота — скользящим окном в redis или в памяти.
package admission

import (
	"context"
	"fmt"
	"strings"
)

// Сообщения отказов для категорий bot и shield. Сообщение для
// rate-limit зависит от роли и приходит в составе правила.
const (
	botMessage    = "automated clients are not allowed"
	shieldMessage = "request blocked by security policy"
)

// Window считает события по ключу в скользящем окне.
// Take регистрирует событие и сообщает, укладывается ли оно в лимит.
type Window interface {
	Take(ctx context.Context, key string, rule Rule) (bool, error)
}

// LocalDecider реализует Decider поверх локального окна счётчиков.
type LocalDecider struct {
	window Window
}

// NewLocalDecider создает LocalDecider с переданным механизмом окна.
func NewLocalDecider(window Window) *LocalDecider {
	return &LocalDecider{window: window}
}

// Decide классифицирует запрос: сначала отсев ботов и атакующих
// сигнатур, затем учёт в окне частоты. Порядок фиксирован, чтобы
// бот-трафик не расходовал лимит роли.
func (d *LocalDecider) Decide(ctx context.Context, probe Probe, rule Rule) (Decision, error) {
	const op = "admission.Decide"

	if looksLikeBot(probe.UserAgent) {
		return Decision{Kind: DenyBot, Message: botMessage}, nil
	}
	if hasAttackSignature(probe.Path, probe.Query) {
		return Decision{Kind: DenyShield, Message: shieldMessage}, nil
	}

	key := rule.Name + ":" + probe.IP
	ok, err := d.window.Take(ctx, key, rule)
	if err != nil {
		return Decision{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return Decision{Kind: DenyRateLimit, Message: rule.Message}, nil
	}
	return Decision{Kind: Allow}, nil
}

// Маркеры автоматизированных клиентов в User-Agent.
var botMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"scrapy",
	"python-requests",
	"go-http-client",
	"headlesschrome",
	"phantomjs",
}

func looksLikeBot(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	ua := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// Сигнатуры типовых попыток инъекций и обхода путей.
var attackSignatures = []string{
	"../",
	"..%2f",
	"<script",
	"%3cscript",
	"union select",
	"union%20select",
	"' or 1=1",
	"etc/passwd",
}

func hasAttackSignature(path, query string) bool {
	target := strings.ToLower(path + "?" + query)
	for _, signature := range attackSignatures {
		if strings.Contains(target, signature) {
			return true
		}
	}
	return false
}
