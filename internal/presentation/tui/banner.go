package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the SunBun ASCII banner with the release version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Warm gradient, sunrise style
	s1 := termenv.String(`   ____              ____              `).Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(`  / ___| _   _ _ __ | __ ) _   _ _ __  `).Foreground(p.Color("#f59e0b"))
	s3 := termenv.String("  \\___ \\| | | | '_ \\|  _ \\| | | | '_ \\ ").Foreground(p.Color("#f97316"))
	s4 := termenv.String(`   ___) | |_| | | | | |_) | |_| | | | |`).Foreground(p.Color("#ea580c"))
	s5 := termenv.String(`  |____/ \__,_|_| |_|____/ \__,_|_| |_|`).Foreground(p.Color("#dc2626"))
	tag := termenv.String(fmt.Sprintf("  solar assistant %s", version)).Faint()

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(tag)
	fmt.Println()
}
