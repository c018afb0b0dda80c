package orchestration

import "sync"

// VoiceMode selects how incoming transcript fragments are routed. It is a
// tagged variant so call sites pattern-match instead of comparing strings.
type VoiceMode interface {
	isVoiceMode()
}

// CommandMode accumulates finalized fragments into the pending command
// buffer.
type CommandMode struct{}

// DictationMode appends finalized fragments to a target document, bypassing
// the agent.
type DictationMode struct {
	TargetID string
}

func (CommandMode) isVoiceMode()   {}
func (DictationMode) isVoiceMode() {}

// voiceModeController owns the listening flag and the current routing mode.
// Mode changes only happen on explicit dictation entry/exit requests or
// exit phrases; fragment routing itself never mutates the mode.
type voiceModeController struct {
	mu          sync.Mutex
	listening   bool
	mode        VoiceMode
	exitPhrases []string
}

func newVoiceModeController() *voiceModeController {
	return &voiceModeController{
		mode:        CommandMode{},
		exitPhrases: defaultDictationExitPhrases,
	}
}

func (c *voiceModeController) setListening(listening bool) {
	c.mu.Lock()
	c.listening = listening
	c.mu.Unlock()
}

func (c *voiceModeController) isListening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

func (c *voiceModeController) current() VoiceMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// enterDictation requires a concrete target id; target resolution happens at
// the call site so an unresolvable request never reaches the controller.
func (c *voiceModeController) enterDictation(targetID string) {
	c.mu.Lock()
	c.mode = DictationMode{TargetID: targetID}
	c.mu.Unlock()
}

// exitDictation switches back to command mode. It reports whether the mode
// actually changed.
func (c *voiceModeController) exitDictation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.mode.(DictationMode); !ok {
		return false
	}
	c.mode = CommandMode{}
	return true
}

func (c *voiceModeController) setExitPhrases(phrases []string) {
	c.mu.Lock()
	if len(phrases) > 0 {
		c.exitPhrases = phrases
	}
	c.mu.Unlock()
}

func (c *voiceModeController) currentExitPhrases() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitPhrases
}
