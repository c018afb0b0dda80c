// Package events defines the typed orchestration event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - voice.*
//   - agent_response.*
//   - tool_call.*
//   - turn_state.*
//   - undo.*
//
// Semantics used across the package:
//
//   - Fragment: a single speech-to-text result, interim or finalized.
//   - Segment: append-only text piece emitted in stream order.
//   - Final: terminal immutable text/state for the current turn phase.
//
// voice events
//
//   - VoiceFragment (voice.fragment): raw transcript fragment as received.
//   - VoiceModeChanged (voice.mode_changed): the controller switched between
//     command and dictation routing.
//   - VoiceCommandBuffered (voice.command_buffered): current pending command
//     buffer snapshot after a finalized command-mode fragment.
//   - VoiceDictationAppended (voice.dictation_appended): processed text was
//     appended to the dictation target.
//
// agent_response events
//
//   - AgentResponseSegment (agent_response.segment): streamed visible text,
//     emitted as a monotonically growing prefix.
//   - AgentResponseFinal (agent_response.final): visible text stream is
//     complete for the turn.
//
// tool_call events
//
//   - ToolCallCompleted (tool_call.completed): tool execution finished with a
//     result string.
//   - ToolCallFailed (tool_call.failed): tool execution produced a failure.
//
// turn_state events
//
//   - TurnStarted (turn_state.started): an agent turn was opened.
//   - TurnCompleted (turn_state.completed): the turn finished and all its tool
//     invocations were dispatched.
//   - TurnFailed (turn_state.failed): the turn ended with a transport error.
//   - TurnCancelled (turn_state.cancelled): the turn was cancelled before
//     completion; no tool invocations were dispatched.
//
// undo events
//
//   - UndoPerformed (undo.performed): one undo entry was applied (or the log
//     reported there was nothing to undo).
package events
