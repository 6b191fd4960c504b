package server

import (
	"html/template"
	"net/http"
)

type resultKind int

const (
	resultSuccess resultKind = iota
	resultFailure
)

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
	<meta charset="utf-8">
	<title>{{.AppName}}</title>
</head>
<body>
	<h1>{{.Heading}}</h1>
	<p>{{.Detail}}</p>
</body>
</html>
`))

type resultPageData struct {
	AppName string
	Heading string
	Detail  string
}

// renderResultPage shows the post-authorization browser page. The chat
// dialog continues in the chat surface; the page only tells the user whether
// to go back and press the confirmation button or to request a fresh link.
func (s *Server) renderResultPage(w http.ResponseWriter, status int, kind resultKind) {
	data := resultPageData{AppName: s.config.GetAppName()}
	switch kind {
	case resultSuccess:
		data.Heading = "Авторизация прошла успешно"
		data.Detail = "Вернитесь в чат и нажмите кнопку подтверждения."
	default:
		data.Heading = "Не удалось завершить авторизацию"
		data.Detail = "Запросите новую ссылку для входа в чате и попробуйте еще раз."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = resultTemplate.Execute(w, data)
}
