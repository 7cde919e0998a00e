package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DescribeError flattens a discordgo REST failure into a short error that
// keeps the HTTP status and Discord's own code. Other errors pass through.
func DescribeError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		if rest.Message != nil {
			return fmt.Errorf("discord: %d (code %d): %s", rest.Response.StatusCode, rest.Message.Code, rest.Message.Message)
		}
		return fmt.Errorf("discord: %s", rest.Response.Status)
	}
	return err
}
