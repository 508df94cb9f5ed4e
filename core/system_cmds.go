package core

import "github.com/go-radish/radish/message"

const (
	systemName       = "Radish"
	systemAuthors    = "Dmitry Shatilov <shatilov dot diman at gmail dot com>"
	systemVersion    = "Custom"
	systemLicense    = "AGPL v.3"
	systemRepository = "internet"
)

func (c *Core) authors(a *args) (message.Value, error) {
	return message.String(systemName + " copyright @ 2020 " + systemAuthors), nil
}

func (c *Core) version(a *args) (message.Value, error) {
	return message.String(systemVersion), nil
}

func (c *Core) license(a *args) (message.Value, error) {
	return message.String(systemLicense), nil
}

func (c *Core) help(a *args) (message.Value, error) {
	return message.String("Under construction. Please see " + systemRepository + " for help"), nil
}
