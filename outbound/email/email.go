package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"github.com/spf13/viper"
	"io"
	"mime"
	"mime/multipart"
	"museum-ticket/model"
	"net/smtp"
	"net/textproto"
	"strings"
)

// SmtpMailer sends plain text mail, with ticket files as MIME attachments.
type SmtpMailer struct {
	Cfg  *viper.Viper
	auth smtp.Auth
	addr string
	from string
}

func (out *SmtpMailer) Init() {
	user := out.Cfg.GetString("email.user")
	host := out.Cfg.GetString("email.host")

	out.from = out.Cfg.GetString("email.from")
	if out.from == "" {
		out.from = user
	}

	out.addr = fmt.Sprintf("%s:%d", host, out.Cfg.GetInt("email.port"))

	if out.Cfg.GetString("email.auth") == "plain" {
		out.auth = smtp.PlainAuth("", user, out.Cfg.GetString("email.password"), host)
	} else {
		out.auth = smtp.CRAMMD5Auth(user, out.Cfg.GetString("email.password"))
	}
}

func (out *SmtpMailer) Send(ctx context.Context, to []string, subject string, body string, attachments ...model.Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message, err := buildMessage(out.from, to, subject, body, attachments)
	if err != nil {
		return err
	}

	return smtp.SendMail(out.addr, out.auth, out.from, to, message)
}

func buildMessage(from string, to []string, subject string, body string, attachments []model.Attachment) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ","))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(body)
		return buf.Bytes(), nil
	}

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err = part.Write([]byte(body)); err != nil {
		return nil, err
	}

	for _, attachment := range attachments {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		part, err = writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Filename})},
		})
		if err != nil {
			return nil, err
		}

		if err = writeBase64(part, attachment.Content); err != nil {
			return nil, err
		}
	}

	if err = writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeBase64 wraps encoded content at 76 columns.
func writeBase64(w io.Writer, content []byte) error {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}

	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}
