package slack

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CommandType string

const (
	CmdAdd    CommandType = "add"
	CmdList   CommandType = "list"
	CmdDelete CommandType = "delete"
	CmdStats  CommandType = "stats"
	CmdHelp   CommandType = "help"
)

var ErrMissingTarget = errors.New("delete needs an id, a date, a description or all")

type Command struct {
	Type CommandType
	Args []string
	Raw  string

	// delete and list targets
	ID    string
	All   bool
	Date  *time.Time
	Text  string
	Limit int
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02/01"}

// ParseCommand reads the slash command text. Anything that is not a known
// keyword is a new reminder and goes to the intent parser as is.
func ParseCommand(text string, loc *time.Location) (*Command, error) {
	if loc == nil {
		loc = time.UTC
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{
		Raw: text,
	}
	if len(parts) > 1 {
		cmd.Args = parts[1:]
	}

	switch strings.ToLower(parts[0]) {
	case "help", "ajuda":
		cmd.Type = CmdHelp
	case "list", "ls", "listar":
		cmd.Type = CmdList
		cmd.Date, cmd.Text = splitDate(cmd.Args, loc)
	case "delete", "del", "rm", "remove", "apagar":
		cmd.Type = CmdDelete
		if err := parseDeleteArgs(cmd, loc); err != nil {
			return nil, err
		}
	case "stats":
		cmd.Type = CmdStats
	default:
		cmd.Type = CmdAdd
		cmd.Args = parts
		cmd.Text = strings.TrimSpace(text)
	}

	return cmd, nil
}

func parseDeleteArgs(cmd *Command, loc *time.Location) error {
	args := cmd.Args
	if len(args) == 0 {
		return ErrMissingTarget
	}

	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "all", "todos", "tudo":
			cmd.All = true
			return nil
		}
		if id, err := uuid.Parse(args[0]); err == nil {
			cmd.ID = id.String()
			return nil
		}
	}

	if n := len(args); n >= 2 {
		switch strings.ToLower(args[n-2]) {
		case "limit", "limite":
			if limit, err := strconv.Atoi(args[n-1]); err == nil && limit > 0 {
				cmd.Limit = limit
				args = args[:n-2]
			}
		}
	}

	cmd.Date, cmd.Text = splitDate(args, loc)
	if cmd.Date == nil && cmd.Text == "" {
		return ErrMissingTarget
	}
	return nil
}

// splitDate pulls a leading date out of args and returns the rest as text.
func splitDate(args []string, loc *time.Location) (*time.Time, string) {
	if len(args) == 0 {
		return nil, ""
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, args[0], loc)
		if err != nil {
			continue
		}
		if layout == "02/01" {
			t = time.Date(time.Now().In(loc).Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		}
		// window matching is centred on the given instant, so aim at midday
		t = t.Add(12 * time.Hour)
		return &t, strings.Join(args[1:], " ")
	}

	return nil, strings.Join(args, " ")
}

func GetHelpText() string {
	return `*Comandos disponíveis:*

*Criar:*
• ` + "`/lembrete em 10 minutos falar com o João`" + ` - Cria um lembrete (também entende frases livres)
• ` + "`/lembrete 2030-03-11 09:30 standup`" + ` - Cria um lembrete para data e hora exatas

*Consultar:*
• ` + "`/lembrete list`" + ` - Lista seus lembretes pendentes
• ` + "`/lembrete list 11/03/2030`" + ` - Lista os lembretes de um dia
• ` + "`/lembrete list reunião`" + ` - Lista os lembretes que combinam com o texto

*Apagar:*
• ` + "`/lembrete delete <id>`" + ` - Apaga um lembrete pelo id
• ` + "`/lembrete delete reunião limit 1`" + ` - Apaga lembretes que combinam com a descrição
• ` + "`/lembrete delete all`" + ` - Apaga todos os seus lembretes pendentes

*Outros:*
• ` + "`/lembrete stats`" + ` - Mostra estatísticas dos lembretes`
}
