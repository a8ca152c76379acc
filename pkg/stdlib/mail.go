package stdlib

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"vela/pkg/registry"
	"vela/pkg/value"
)

// installMail registers the `mail` module, grounded on the teacher's
// mail.send implementation: SMTP config from SMTP_HOST/SMTP_PORT/
// SMTP_USER/SMTP_PASS, a Map argument carrying to/from/subject/body/html.
func installMail(reg *registry.Registry) {
	mod := registry.NewModule()

	mod.Functions["send"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("mail::send expects a single Map argument")
		}
		m, ok := value.Unwrap(args[0]).(*value.MapVal)
		if !ok {
			return nil, argError("mail::send argument must be a Map")
		}
		msg, err := buildMessage(m)
		if err != nil {
			return nil, err
		}
		dialer, err := smtpDialerFromEnv()
		if err != nil {
			return nil, err
		}
		if err := dialer.DialAndSend(msg); err != nil {
			return nil, err
		}
		return value.NewBool(true), nil
	}

	mod.Functions["queue"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("mail::queue expects a single Map argument")
		}
		m, ok := value.Unwrap(args[0]).(*value.MapVal)
		if !ok {
			return nil, argError("mail::queue argument must be a Map")
		}
		msg, err := buildMessage(m)
		if err != nil {
			return nil, err
		}
		dialer, err := smtpDialerFromEnv()
		if err != nil {
			return nil, err
		}
		go func() {
			_ = dialer.DialAndSend(msg)
		}()
		return value.NewUnit(), nil
	}

	reg.DefineModule("mail", mod)
}

func buildMessage(m *value.MapVal) (*gomail.Message, error) {
	to, ok := m.Get("to")
	if !ok {
		return nil, fmt.Errorf("mail message requires a \"to\" field")
	}
	toAddr, mismatch := value.AsString(to)
	if mismatch != "" {
		return nil, fmt.Errorf("mail \"to\" must be String, got %s", mismatch)
	}
	subject := ""
	if v, ok := m.Get("subject"); ok {
		subject, _ = value.AsString(v)
	}
	body := ""
	if v, ok := m.Get("body"); ok {
		body, _ = value.AsString(v)
	}
	html := false
	if v, ok := m.Get("html"); ok {
		html, _ = value.AsBool(v)
	}
	from := os.Getenv("SMTP_USER")
	if v, ok := m.Get("from"); ok {
		if s, mismatch := value.AsString(v); mismatch == "" {
			from = s
		}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", toAddr)
	msg.SetHeader("Subject", subject)
	if html {
		msg.SetBody("text/html", body)
	} else {
		msg.SetBody("text/plain", body)
	}
	return msg, nil
}

func smtpDialerFromEnv() (*gomail.Dialer, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	if host == "" || portStr == "" {
		return nil, fmt.Errorf("SMTP_HOST and SMTP_PORT must be set")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", portStr, err)
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	return gomail.NewDialer(host, port, user, pass), nil
}
