package engine

import (
	"github.com/justyntemme/polysynth/pkg/dsp/delay"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/framework/voice"
)

// Parameter IDs
const (
	ParamWaveform uint32 = iota
	ParamAttack
	ParamDecay
	ParamSustain
	ParamRelease
	ParamGlide
	ParamGain
	ParamVoices

	ParamEcho
	ParamEchoFeedback
	ParamEchoWet
	ParamVolume
	ParamMute

	ParamLFOBeats
	ParamLFOShape
	ParamLFOPhase
	ParamLFODepth
	ParamLFOOffset
	ParamLFOBipolar
	ParamLFOTarget
	ParamTempo

	ParamTranspose
	ParamTransposeLow
	ParamTransposeHigh
	ParamPassNonNote
)

// LFO routing targets, in lfo_target order
const (
	TargetNone = iota
	TargetGain
	TargetVolume
	TargetEchoWet
)

const (
	MaxEnvelopeSeconds = 10.0
	MaxGlideMillis     = 5000.0
	MinTempo           = 20.0
	MaxTempo           = 300.0
)

func newParameters() []*param.Parameter {
	return []*param.Parameter{
		param.Choice(ParamWaveform, "waveform", "Waveform", []param.ChoiceOption{
			{Value: 0, Name: "sine"},
			{Value: 1, Name: "square"},
			{Value: 2, Name: "sawtooth", Aliases: []string{"saw"}},
			{Value: 3, Name: "triangle", Aliases: []string{"tri"}},
		}).Default(2).Build(),
		param.SecondsParameter(ParamAttack, "attack", "Attack", MaxEnvelopeSeconds, 0.005).Build(),
		param.SecondsParameter(ParamDecay, "decay", "Decay", MaxEnvelopeSeconds, 0.12).Build(),
		param.MixParameter(ParamSustain, "sustain", "Sustain", 0.7).Build(),
		param.SecondsParameter(ParamRelease, "release", "Release", MaxEnvelopeSeconds, 0.12).Build(),
		param.MillisecondsParameter(ParamGlide, "glide", "Glide", MaxGlideMillis, 0).Build(),
		param.MixParameter(ParamGain, "gain", "Master Gain", voice.DefaultGain).Build(),
		param.IntParameter(ParamVoices, "voices", "Voices", voice.MinVoices, voice.MaxVoices, voice.DefaultVoices).Build(),

		param.New(ParamEcho, "echo", "Echo").Toggle(false).Build(),
		param.New(ParamEchoFeedback, "echo_feedback", "Echo Feedback").
			Range(0, delay.MaxFeedback).Default(delay.DefaultFeedback).Build(),
		param.MixParameter(ParamEchoWet, "echo_wet", "Echo Wet", delay.DefaultWet).Build(),
		param.MixParameter(ParamVolume, "volume", "Volume", 0.8).Build(),
		param.New(ParamMute, "mute", "Mute").Toggle(false).Build(),

		param.New(ParamLFOBeats, "lfo_beats", "LFO Beats/Cycle").
			Range(0.0625, 64).Default(1).Unit("beats").Build(),
		param.Choice(ParamLFOShape, "lfo_shape", "LFO Shape", []param.ChoiceOption{
			{Value: 0, Name: "sine"},
			{Value: 1, Name: "triangle", Aliases: []string{"tri"}},
			{Value: 2, Name: "saw", Aliases: []string{"sawtooth"}},
			{Value: 3, Name: "square"},
		}).Build(),
		param.MixParameter(ParamLFOPhase, "lfo_phase", "LFO Phase", 0).Build(),
		param.MixParameter(ParamLFODepth, "lfo_depth", "LFO Depth", 0).Build(),
		param.New(ParamLFOOffset, "lfo_offset", "LFO Offset").Range(-1, 1).Default(0).Build(),
		param.New(ParamLFOBipolar, "lfo_bipolar", "LFO Bipolar").Toggle(true).Build(),
		param.Choice(ParamLFOTarget, "lfo_target", "LFO Target", []param.ChoiceOption{
			{Value: TargetNone, Name: "none", Aliases: []string{"off"}},
			{Value: TargetGain, Name: "gain"},
			{Value: TargetVolume, Name: "volume"},
			{Value: TargetEchoWet, Name: "echo_wet"},
		}).Build(),
		param.New(ParamTempo, "tempo", "Tempo").Range(MinTempo, MaxTempo).Default(120).Unit("bpm").Build(),

		param.IntParameter(ParamTranspose, "transpose", "Transpose", -48, 48, 0).Build(),
		param.NoteParameter(ParamTransposeLow, "transpose_low", "Lowest Key", 0).Build(),
		param.NoteParameter(ParamTransposeHigh, "transpose_high", "Highest Key", 127).Build(),
		param.New(ParamPassNonNote, "pass_non_note", "Pass Non-Note").Toggle(true).Build(),
	}
}
