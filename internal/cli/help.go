package cli

import "github.com/MakeNowJust/heredoc/v2"

var rootLong = heredoc.Doc(`
	recall stores flashcards and finds them with a small query language.

	Queries combine terms with spaces (AND), " OR ", leading "-" (NOT) and
	parentheses. A term is either key<op>value or a bare word searched in
	template, front, mnemonic, entry, deck, tag and every data field.

	  deck:JP tag=verb        deck contains "JP" and a tag equals "verb"
	  srsLevel>=3 -is:leech   level 3 or more and not a leech
	  @reading~^た            a data field matching a regex
	  due<+1d sortBy:deck     due within a day, sorted by deck
	  is:due -sortBy:created  due now, newest first

	Operators: : (contains) = ~ (regex) > >= < <=. NULL matches missing or
	empty fields. Date fields accept NOW, offsets like -3day and dates.

	Configuration comes from --config or $XDG_CONFIG_HOME/recall/config.yaml,
	then RECALL_* environment variables, then flags.
`)
