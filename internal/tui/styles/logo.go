package styles

// Logo is the full banner shown on the lessons screen.
const Logo = `
 ╔╦╗╦═╗╔═╗╔╦╗╔═╗  ╔╦╗╦ ╦╔╦╗╔═╗╦═╗
  ║ ╠╦╝╠═╣ ║║║╣    ║ ║ ║ ║ ║ ║╠╦╝
  ╩ ╩╚═╩ ╩═╩╝╚═╝   ╩ ╚═╝ ╩ ╚═╝╩╚═`

// CompactLogo fits in the dashboard header.
const CompactLogo = "◆ TRADETUTOR"

// Disclaimer is shown wherever backtest numbers are displayed.
const Disclaimer = "Educational use only. Past performance does not predict future results."
