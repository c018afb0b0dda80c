package events

const (
	// KindVoiceFragment identifies a transcript fragment as received from the
	// speech engine.
	KindVoiceFragment Kind = "voice.fragment"
	// KindVoiceModeChanged identifies a switch between command and dictation
	// routing.
	KindVoiceModeChanged Kind = "voice.mode_changed"
	// KindVoiceCommandBuffered identifies a pending command buffer update.
	KindVoiceCommandBuffered Kind = "voice.command_buffered"
	// KindVoiceDictationAppended identifies text appended to the dictation
	// target.
	KindVoiceDictationAppended Kind = "voice.dictation_appended"
)

// VoiceFragment carries a transcript fragment as received.
type VoiceFragment struct {
	Base
	Text    string
	IsFinal bool
}

// NewVoiceFragment creates a transcript fragment event.
func NewVoiceFragment(text string, isFinal bool) VoiceFragment {
	return VoiceFragment{Base: NewBase(KindVoiceFragment), Text: text, IsFinal: isFinal}
}

// VoiceModeChanged marks a routing mode switch. TargetID is empty in command
// mode.
type VoiceModeChanged struct {
	Base
	Dictating bool
	TargetID  string
}

// NewVoiceModeChanged creates a voice mode change event.
func NewVoiceModeChanged(dictating bool, targetID string) VoiceModeChanged {
	return VoiceModeChanged{Base: NewBase(KindVoiceModeChanged), Dictating: dictating, TargetID: targetID}
}

// VoiceCommandBuffered carries the pending command buffer snapshot.
type VoiceCommandBuffered struct {
	Base
	Pending string
}

// NewVoiceCommandBuffered creates a pending command buffer event.
func NewVoiceCommandBuffered(pending string) VoiceCommandBuffered {
	return VoiceCommandBuffered{Base: NewBase(KindVoiceCommandBuffered), Pending: pending}
}

// VoiceDictationAppended carries the processed text appended to the target.
type VoiceDictationAppended struct {
	Base
	TargetID string
	Text     string
}

// NewVoiceDictationAppended creates a dictation append event.
func NewVoiceDictationAppended(targetID, text string) VoiceDictationAppended {
	return VoiceDictationAppended{Base: NewBase(KindVoiceDictationAppended), TargetID: targetID, Text: text}
}
