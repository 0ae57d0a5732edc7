// Package bind centralizes flag extraction for the generation commands,
// keeping cobra plumbing out of the service layer.
package bind

import (
	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/pkg/backend"
)

// BindVideoOptions extracts the generate command flags into a video
// generation request.
//
// Flags read:
//   - --text: Script the actor speaks
//   - --actor: Actor identifier
//   - --actor-video: Reference video URL for the actor
//   - --language: Script language
//   - --voice: Voice preset
//   - --project: Optional project identifier
//
// The script may also be passed as a single positional argument; the flag
// wins when both are present.
func BindVideoOptions(cmd *cobra.Command, args []string) backend.VideoRequest {
	text, _ := cmd.Flags().GetString("text")
	if text == "" && len(args) > 0 {
		text = args[0]
	}
	actorID, _ := cmd.Flags().GetString("actor")
	actorVideo, _ := cmd.Flags().GetString("actor-video")
	language, _ := cmd.Flags().GetString("language")
	voice, _ := cmd.Flags().GetString("voice")
	project, _ := cmd.Flags().GetString("project")

	return backend.VideoRequest{
		Text:          text,
		ActorID:       actorID,
		ActorVideoURL: actorVideo,
		Language:      language,
		VoicePreset:   voice,
		ProjectID:     project,
	}
}

// BindSpeechOptions extracts the speech command flags into a
// text-to-speech request.
func BindSpeechOptions(cmd *cobra.Command, args []string) backend.SpeechRequest {
	text, _ := cmd.Flags().GetString("text")
	if text == "" && len(args) > 0 {
		text = args[0]
	}
	voice, _ := cmd.Flags().GetString("voice")
	language, _ := cmd.Flags().GetString("language")

	return backend.SpeechRequest{
		Text:        text,
		VoicePreset: voice,
		Language:    language,
	}
}

// AnimateOptions carries the animate command inputs; exactly one of
// ImageURL or FilePath is expected (validated by the command).
type AnimateOptions struct {
	ImageURL string
	FilePath string
	Prompt   string
}

// BindAnimateOptions extracts the animate command flags.
func BindAnimateOptions(cmd *cobra.Command) AnimateOptions {
	imageURL, _ := cmd.Flags().GetString("image-url")
	filePath, _ := cmd.Flags().GetString("file")
	prompt, _ := cmd.Flags().GetString("prompt")

	return AnimateOptions{
		ImageURL: imageURL,
		FilePath: filePath,
		Prompt:   prompt,
	}
}
