package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ftl/cwplayer/morse"
	"github.com/ftl/cwplayer/textio"
)

var encodeFlags = struct {
	file   string
	export string
}{}

var encodeCmd = &cobra.Command{
	Use:   "encode [text...]",
	Short: "print the Morse code of the given text",
	Run:   runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVar(&encodeFlags.file, "file", "", "encode the content of this file")
	encodeCmd.Flags().StringVar(&encodeFlags.export, "export", "", "write the text and its Morse code to this file")
}

func runEncode(cmd *cobra.Command, args []string) {
	var text string
	var err error
	switch {
	case encodeFlags.file != "":
		text, err = textio.Load(encodeFlags.file)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		err = fmt.Errorf("nothing to encode, give a text argument or use --file")
	}
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}

	message := morse.Encode(text)

	if encodeFlags.export != "" {
		err = textio.ExportFile(encodeFlags.export, text, message)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatal(err)
		}
		return
	}
	fmt.Println(message.Code)
}
