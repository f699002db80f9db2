package template

import (
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var Login *template.Template
var Register *template.Template
var Index *template.Template
var Buy *template.Template
var Sell *template.Template
var Quote *template.Template
var Quoted *template.Template
var History *template.Template
var Apology *template.Template

// USD formats a decimal amount as US dollars, like $1,234.56
func USD(value decimal.Decimal) string {
	text := value.Abs().StringFixed(2)
	integerPart := text[:len(text)-3]
	fractionPart := text[len(text)-3:]

	var builder strings.Builder

	if value.IsNegative() {
		builder.WriteString("-")
	}

	builder.WriteString("$")

	for i, digit := range integerPart {
		remaining := len(integerPart) - i

		if i > 0 && remaining%3 == 0 {
			builder.WriteString(",")
		}

		builder.WriteRune(digit)
	}

	builder.WriteString(fractionPart)

	return builder.String()
}

func load(filenames ...string) *template.Template {
	paths := make([]string, 0, len(filenames)+1)
	paths = append(paths, "template/base.tmpl")

	for _, filename := range filenames {
		paths = append(paths, "template/"+filename)
	}

	return template.Must(
		template.New("base.tmpl").
			Funcs(template.FuncMap{"usd": USD}).
			ParseFiles(paths...),
	)
}

func Init() {
	Login = load("login.tmpl")
	Register = load("register.tmpl")
	Index = load("index.tmpl")
	Buy = load("buy.tmpl")
	Sell = load("sell.tmpl")
	Quote = load("quote.tmpl")
	Quoted = load("quoted.tmpl")
	History = load("history.tmpl")
	Apology = load("apology.tmpl")
}

func Render(tmpl *template.Template, writer io.Writer, data interface{}) {
	tmpl.ExecuteTemplate(writer, "base", data)
}
