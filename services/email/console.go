package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/walimu/walimu/core"
	appfs "github.com/walimu/walimu/fs"
)

// consoleService writes emails to stdout; used in DEV and TEST modes.
type consoleService struct {
	conf   *core.Config
	logger core.Logger
	mutex  sync.Mutex
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config, logger core.Logger) *consoleService {
	return &consoleService{conf: conf, logger: logger}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := msg.Render(svc.conf, appfs.FS, svc.logger); err != nil {
				svc.logger.Error(fmt.Sprintf("rendering email: %v", err), err)
				return
			}
			if msg.HasRecipients() && msg.HasContent() {
				svc.print(msg)
			}
		}()
	}
}

func (svc *consoleService) print(msg *core.EmailMessage) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	from := svc.conf.DefaultFromEmail()

	var b strings.Builder
	b.WriteString("\n----------- EMAIL -----------\n")
	fmt.Fprintf(&b, "Date: %s\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "From: %s\n", from.String())
	fmt.Fprintf(&b, "To: %s\n", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\n", joinAddresses(msg.Cc))
	}
	fmt.Fprintf(&b, "Subject: [%s] %s\n\n", svc.conf.AppName, msg.Subject)
	b.WriteString(msg.TextContent)
	b.WriteString("\n-----------------------------\n")
	log.Print(b.String())
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		strs = append(strs, addr.String())
	}
	return strings.Join(strs, ", ")
}
