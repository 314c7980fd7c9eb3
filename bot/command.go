package bot

// Kind enumerates the command families the router knows how to dispatch.
// Parsing produces a Kind so dispatch is an exhaustive switch rather than
// string comparisons scattered through the router; the zero value is the
// explicit "no match" arm.
type Kind int

const (
	KindNone Kind = iota
	KindDeath
	KindDeathAdd
	KindDeathReset
	KindDeathInit
	KindFlowermonsHelp
	KindFlowerdex
	KindCatch
	KindLeaders
	KindAddBalls
	KindLeave
	KindNext
	KindWin
	KindQueues
	KindSpot
	KindQueueInit
	KindScore
	KindShoutout
	KindStreamerAddNew
	// KindQueueJoin is synthesized by the router when the command name
	// matches a configured queue name; it never appears in commandKinds.
	KindQueueJoin
)

// Command is one parsed chat command: the recognized kind (KindNone for a
// name the router may still match against queue names), the raw name, and
// its arguments.
type Command struct {
	Kind Kind
	Name string
	Args []string
}

var commandKinds = map[string]Kind{
	"death":          KindDeath,
	"deathadd":       KindDeathAdd,
	"deathreset":     KindDeathReset,
	"deathinit":      KindDeathInit,
	"flowermons":     KindFlowermonsHelp,
	"flowerdex":      KindFlowerdex,
	"catch":          KindCatch,
	"leaders":        KindLeaders,
	"addballs":       KindAddBalls,
	"leave":          KindLeave,
	"next":           KindNext,
	"win":            KindWin,
	"queues":         KindQueues,
	"spot":           KindSpot,
	"queueinit":      KindQueueInit,
	"score":          KindScore,
	"so":             KindShoutout,
	"streameraddnew": KindStreamerAddNew,
}

// ReservedKeywords returns the command names a queue may not be called,
// since a queue name doubles as the join command.
func ReservedKeywords() map[string]bool {
	out := make(map[string]bool, len(commandKinds))
	for name := range commandKinds {
		out[name] = true
	}
	return out
}
