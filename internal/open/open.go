package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
)

// OpenChat opens the chat's transcript in $EDITOR, positioned on the start
// line of hitMsgID when it is non-negative.
func OpenChat(db *index.DB, chatKey string, hitMsgID int) error {
	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return fmt.Errorf("chat not found: %s", chatKey)
	}

	if _, err := os.Stat(chat.FilePath); err != nil {
		return fmt.Errorf("file not found: %s", chat.FilePath)
	}

	lineNum := 1
	if hitMsgID >= 0 {
		if n, err := db.GetMessageLine(chatKey, hitMsgID); err == nil && n > 0 {
			lineNum = n
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, chat.FilePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim"), strings.Contains(editor, "nano"), strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "emacs"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}
